package models

import "time"

// ItemStatus is the availability state of an item
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemPending   ItemStatus = "pending"
	ItemSwapped   ItemStatus = "swapped"
)

// SwapType distinguishes a direct item-for-item exchange from a
// points redemption
type SwapType string

const (
	SwapDirect SwapType = "direct"
	SwapPoints SwapType = "points"
)

// SwapStatus is the lifecycle state of a swap
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapCompleted SwapStatus = "completed"
	SwapRejected  SwapStatus = "rejected"
)

// User represents a user in the system
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FullName      string    `json:"full_name"`
	PointsBalance int       `json:"points_balance"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Item represents a listed garment
type Item struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Size        string     `json:"size"`
	Condition   string     `json:"condition"`
	Images      []string   `json:"images"`
	PointsValue int        `json:"points_value"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Populated on reads that join the owner
	Owner *User `json:"owner,omitempty"`
}

// Swap represents one exchange proposal between two users.
// RequesterItemID is nil for points swaps.
type Swap struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requester_id"`
	RequesterItemID *string    `json:"requester_item_id,omitempty"`
	OwnerID         string     `json:"owner_id"`
	OwnerItemID     string     `json:"owner_item_id"`
	Type            SwapType   `json:"swap_type"`
	Status          SwapStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Populated on reads that join the parties and items
	Requester     *User `json:"requester,omitempty"`
	Owner         *User `json:"owner,omitempty"`
	RequesterItem *Item `json:"requester_item,omitempty"`
	OwnerItem     *Item `json:"owner_item,omitempty"`
}

// ValidCategory reports whether c is an accepted listing category
func ValidCategory(c string) bool {
	switch c {
	case "tops", "bottoms", "dresses", "outerwear", "accessories", "shoes":
		return true
	}
	return false
}

// ValidCondition reports whether c is an accepted listing condition
func ValidCondition(c string) bool {
	switch c {
	case "like-new", "good", "fair":
		return true
	}
	return false
}
