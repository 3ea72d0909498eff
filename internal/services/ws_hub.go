package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"rewear-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections keyed by user id. Swap events are
// delivered best-effort: an offline party simply misses the push and
// sees the new state on their next request.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existingConn, exists := h.connections[userID]; exists {
		existingConn.Close()
	}

	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// NotifySwapCreated notifies the item owner about a new swap proposal
func (h *WSHub) NotifySwapCreated(ownerID string, swap *models.Swap) error {
	return h.SendToUser(ownerID, WSMessage{
		Type: "swap_created",
		Data: map[string]interface{}{
			"swap_id":       swap.ID,
			"swap_type":     swap.Type,
			"owner_item_id": swap.OwnerItemID,
			"requester_id":  swap.RequesterID,
			"created_at":    swap.CreatedAt,
		},
	})
}

// NotifySwapResolved notifies the requester that their proposal was
// accepted or rejected
func (h *WSHub) NotifySwapResolved(requesterID string, swapID string, status models.SwapStatus) error {
	msgType := "swap_rejected"
	if status == models.SwapCompleted {
		msgType = "swap_accepted"
	}
	return h.SendToUser(requesterID, WSMessage{
		Type: msgType,
		Data: map[string]interface{}{
			"swap_id": swapID,
			"status":  status,
		},
	})
}
