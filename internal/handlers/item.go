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

// ItemHandler handles listing-related HTTP requests
type ItemHandler struct {
	itemService  *services.ItemService
	imageService *services.ImageService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *services.ItemService, imageService *services.ImageService) *ItemHandler {
	return &ItemHandler{
		itemService:  itemService,
		imageService: imageService,
	}
}

// CreateItem handles POST /api/v1/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var in services.CreateItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.itemService.CreateItem(ctx, userID, in)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create item")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("item_id", item.ID).
		Str("category", item.Category).
		Msg("Item created")

	respondJSON(w, item, http.StatusCreated)
}

// GetItem handles GET /api/v1/items/{item_id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, "item_id is required", http.StatusBadRequest)
		return
	}

	item, err := h.itemService.GetItem(r.Context(), itemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, item, http.StatusOK)
}

// ListItems handles GET /api/v1/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	items, err := h.itemService.ListItems(r.Context(), category)
	if err != nil {
		log.Error().Err(err).Str("category", category).Msg("Failed to list items")
		respondDomainError(w, err)
		return
	}

	if items == nil {
		items = []*models.Item{}
	}
	respondJSON(w, map[string]interface{}{"items": items, "count": len(items)}, http.StatusOK)
}

// ListFeatured handles GET /api/v1/items/featured
func (h *ItemHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.ListFeatured(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list featured items")
		respondDomainError(w, err)
		return
	}

	if items == nil {
		items = []*models.Item{}
	}
	respondJSON(w, map[string]interface{}{"items": items}, http.StatusOK)
}

// UploadImageRequest represents a request for a presigned upload URL
type UploadImageRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// UploadImage handles POST /api/v1/items/images/upload
func (h *ItemHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Filename == "" || req.ContentType == "" {
		respondError(w, "filename and content_type are required", http.StatusBadRequest)
		return
	}

	resp, err := h.imageService.GetPresignedUploadURL(ctx, userID, req.Filename, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate upload URL")
		respondError(w, "Failed to generate upload URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, resp, http.StatusOK)
}
