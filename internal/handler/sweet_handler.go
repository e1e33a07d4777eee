package handler

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sweet-shop/internal/model"
	"sweet-shop/internal/service"
	"sweet-shop/internal/validation"

	"github.com/rs/zerolog"
)

type sweetData struct {
	Sweet *model.Sweet `json:"sweet"`
}

type sweetsData struct {
	Sweets []model.Sweet `json:"sweets"`
}

// SweetHandler handles catalogue requests.
type SweetHandler struct {
	service   service.SweetService
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewSweetHandler creates a new sweet handler.
func NewSweetHandler(service service.SweetService, logger zerolog.Logger) *SweetHandler {
	return &SweetHandler{
		service:   service,
		validator: validation.New(),
		logger:    logger.With().Str("handler", "sweet").Logger(),
	}
}

// Create handles POST /api/sweets requests.
func (h *SweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondError(w, err, h.logger)
		return
	}

	sweet, err := h.service.Create(r.Context(), &req)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, "Sweet created successfully", sweetData{Sweet: sweet})
}

// List handles GET /api/sweets requests.
func (h *SweetHandler) List(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.service.List(r.Context())
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Sweets retrieved successfully", sweetsData{Sweets: nonNil(sweets)})
}

// Search handles GET /api/sweets/search requests.
// Query parameters: name, category, minPrice, maxPrice.
func (h *SweetHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r.URL.Query())
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	sweets, err := h.service.Search(r.Context(), filter)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Sweets retrieved successfully", sweetsData{Sweets: nonNil(sweets)})
}

// Get handles GET /api/sweets/{id} requests.
func (h *SweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	sweet, err := h.service.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Sweet retrieved successfully", sweetData{Sweet: sweet})
}

// Update handles PUT /api/sweets/{id} requests.
func (h *SweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	var req model.UpdateSweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondError(w, err, h.logger)
		return
	}

	sweet, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Sweet updated successfully", sweetData{Sweet: sweet})
}

// Delete handles DELETE /api/sweets/{id} requests.
func (h *SweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Sweet deleted successfully", nil)
}

// parseFilter reads the search criteria. Empty parameters are treated as absent.
func (h *SweetHandler) parseFilter(q url.Values) (model.SweetFilter, error) {
	var filter model.SweetFilter
	c := h.validator.Check()

	if v := strings.TrimSpace(q.Get("name")); v != "" {
		filter.Name = &v
	}
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		filter.Category = &v
	}

	for _, p := range []struct {
		key string
		dst **float64
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			c.Add(p.key, p.key+" must be a number")
			continue
		}
		*p.dst = &f
	}

	return filter, c.Err()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
