package services

import (
	"context"
	"fmt"
	"time"

	"rewear-backend/internal/models"
	"rewear-backend/internal/repository"

	"github.com/google/uuid"
)

// featuredLimit caps the featured-items listing
const featuredLimit = 8

// ItemService handles listing-related business logic
type ItemService struct {
	itemRepo *repository.ItemRepository
}

// NewItemService creates a new item service
func NewItemService(itemRepo *repository.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// CreateItemInput holds the fields for a new listing
type CreateItemInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images"`
	PointsValue int      `json:"points_value"`
}

// CreateItem creates a new listing in the available state
func (s *ItemService) CreateItem(ctx context.Context, ownerID string, in CreateItemInput) (*models.Item, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrInvalidInput)
	}
	if !models.ValidCategory(in.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", in.Category, models.ErrInvalidInput)
	}
	if !models.ValidCondition(in.Condition) {
		return nil, fmt.Errorf("unknown condition %q: %w", in.Condition, models.ErrInvalidInput)
	}
	if in.PointsValue <= 0 {
		return nil, fmt.Errorf("points value must be positive: %w", models.ErrInvalidInput)
	}

	if in.Images == nil {
		in.Images = []string{}
	}

	now := time.Now()
	item := &models.Item{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Size:        in.Size,
		Condition:   in.Condition,
		Images:      in.Images,
		PointsValue: in.PointsValue,
		Status:      models.ItemAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

// GetItem retrieves a single item with its owner
func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// ListItems retrieves available items, optionally filtered by category
func (s *ItemService) ListItems(ctx context.Context, category string) ([]*models.Item, error) {
	if category != "" && !models.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q: %w", category, models.ErrInvalidInput)
	}
	return s.itemRepo.ListAvailable(ctx, category)
}

// ListFeatured retrieves the newest available items
func (s *ItemService) ListFeatured(ctx context.Context) ([]*models.Item, error) {
	return s.itemRepo.ListFeatured(ctx, featuredLimit)
}
