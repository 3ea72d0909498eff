package handlers

import (
	"encoding/json"
	"net/http"

	"rewear-backend/internal/middleware"
	"rewear-backend/internal/models"
	"rewear-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SwapHandler handles swap-related HTTP requests
type SwapHandler struct {
	swapService *services.SwapService
	wsHub       *services.WSHub
}

// NewSwapHandler creates a new swap handler
func NewSwapHandler(swapService *services.SwapService, wsHub *services.WSHub) *SwapHandler {
	return &SwapHandler{
		swapService: swapService,
		wsHub:       wsHub,
	}
}

// CreateSwapRequest represents the request body for creating a swap
type CreateSwapRequest struct {
	OwnerItemID     string  `json:"owner_item_id"`
	RequesterItemID *string `json:"requester_item_id,omitempty"`
	SwapType        string  `json:"swap_type"`
}

// CreateSwap handles POST /api/v1/swaps
func (h *SwapHandler) CreateSwap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.OwnerItemID == "" || req.SwapType == "" {
		respondError(w, "owner_item_id and swap_type are required", http.StatusBadRequest)
		return
	}

	proposal, err := models.NewSwapProposal(req.SwapType, req.OwnerItemID, req.RequesterItemID)
	if err != nil {
		respondError(w, "Invalid swap type and item combination", http.StatusBadRequest)
		return
	}

	swap, err := h.swapService.CreateSwap(ctx, userID, proposal)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("owner_item_id", req.OwnerItemID).
			Str("swap_type", req.SwapType).
			Msg("Failed to create swap")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("swap_id", swap.ID).
		Str("swap_type", string(swap.Type)).
		Msg("Swap created")

	// Notify the item owner if they are online; the swap is already
	// committed, so a delivery failure is only logged
	if h.wsHub.IsOnline(swap.OwnerID) {
		if err := h.wsHub.NotifySwapCreated(swap.OwnerID, swap); err != nil {
			log.Error().
				Err(err).
				Str("owner_id", swap.OwnerID).
				Str("swap_id", swap.ID).
				Msg("Failed to notify owner about swap")
		}
	}

	respondJSON(w, map[string]interface{}{"swap_id": swap.ID, "status": swap.Status}, http.StatusCreated)
}

// AcceptSwap handles POST /api/v1/swaps/{swap_id}/accept
func (h *SwapHandler) AcceptSwap(w http.ResponseWriter, r *http.Request) {
	h.resolveSwap(w, r, models.SwapCompleted)
}

// RejectSwap handles POST /api/v1/swaps/{swap_id}/reject
func (h *SwapHandler) RejectSwap(w http.ResponseWriter, r *http.Request) {
	h.resolveSwap(w, r, models.SwapRejected)
}

func (h *SwapHandler) resolveSwap(w http.ResponseWriter, r *http.Request, target models.SwapStatus) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	swapID := chi.URLParam(r, "swap_id")

	if swapID == "" {
		respondError(w, "swap_id is required", http.StatusBadRequest)
		return
	}

	var swap *models.Swap
	var err error
	if target == models.SwapCompleted {
		swap, err = h.swapService.AcceptSwap(ctx, userID, swapID)
	} else {
		swap, err = h.swapService.RejectSwap(ctx, userID, swapID)
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("swap_id", swapID).
			Str("target_status", string(target)).
			Msg("Failed to resolve swap")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("swap_id", swapID).
		Str("status", string(target)).
		Msg("Swap resolved")

	// Notify the requester if they are online; the transition is already
	// committed, so a delivery failure is only logged
	if h.wsHub.IsOnline(swap.RequesterID) {
		if err := h.wsHub.NotifySwapResolved(swap.RequesterID, swap.ID, target); err != nil {
			log.Error().
				Err(err).
				Str("requester_id", swap.RequesterID).
				Str("swap_id", swap.ID).
				Msg("Failed to notify requester about swap resolution")
		}
	}

	respondJSON(w, map[string]interface{}{"swap_id": swapID, "status": target}, http.StatusOK)
}

// ListSwaps handles GET /api/v1/swaps
func (h *SwapHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	swaps, err := h.swapService.ListUserSwaps(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list swaps")
		respondDomainError(w, err)
		return
	}

	if swaps == nil {
		swaps = []*models.Swap{}
	}
	respondJSON(w, map[string]interface{}{"swaps": swaps, "count": len(swaps)}, http.StatusOK)
}
