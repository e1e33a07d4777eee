package handler

import (
	"net/http"
	"strconv"

	"sweet-shop/internal/model"
	"sweet-shop/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type movementsData struct {
	Movements []model.StockMovement `json:"movements"`
}

// InventoryHandler handles stock requests.
type InventoryHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service service.InventoryService, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inventory").Logger(),
	}
}

// Purchase handles POST /api/sweets/{id}/purchase requests.
func (h *InventoryHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.stockRequest(w, r)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	sweet, err := h.service.Purchase(r.Context(), id, req)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Purchase completed successfully", sweetData{Sweet: sweet})
}

// Restock handles POST /api/sweets/{id}/restock requests.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, req, err := h.stockRequest(w, r)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	sweet, err := h.service.Restock(r.Context(), id, req)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Restock completed successfully", sweetData{Sweet: sweet})
}

// Movements handles GET /api/sweets/{id}/movements requests.
// Query parameters: limit.
func (h *InventoryHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	limit := 0 // service default
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			RespondError(w, model.NewValidationError("limit", "limit must be a positive integer"), h.logger)
			return
		}
	}

	movements, err := h.service.Movements(r.Context(), id, limit)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Movements retrieved successfully", movementsData{Movements: nonNil(movements)})
}

func (h *InventoryHandler) stockRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, *model.StockRequest, error) {
	id, err := parseID(r)
	if err != nil {
		return uuid.Nil, nil, err
	}

	var req model.StockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return uuid.Nil, nil, err
	}
	return id, &req, nil
}
