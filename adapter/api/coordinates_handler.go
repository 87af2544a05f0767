package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/carsonrent/rentals/internal/fleet/application"
	"github.com/carsonrent/rentals/internal/fleet/domain"
)

// CoordinatesHandler handles the coordinates resource endpoints.
type CoordinatesHandler struct {
	service *application.CoordinatesService
	logger  *slog.Logger
}

// CoordinatesHandlerConfig holds dependencies for the coordinates handler.
type CoordinatesHandlerConfig struct {
	Service *application.CoordinatesService
	Logger  *slog.Logger
}

// NewCoordinatesHandler creates a new coordinates handler.
func NewCoordinatesHandler(cfg CoordinatesHandlerConfig) *CoordinatesHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &CoordinatesHandler{
		service: cfg.Service,
		logger:  cfg.Logger,
	}
}

type coordinatesRequest struct {
	ID        *int64  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type coordinatesResponse struct {
	ID        int64     `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCoordinatesResponse(coordinates *domain.Coordinates) coordinatesResponse {
	return coordinatesResponse{
		ID:        coordinates.ID(),
		Latitude:  coordinates.Latitude(),
		Longitude: coordinates.Longitude(),
		CreatedAt: coordinates.CreatedAt(),
		UpdatedAt: coordinates.UpdatedAt(),
	}
}

func toCoordinatesResponses(items []*domain.Coordinates) []coordinatesResponse {
	responses := make([]coordinatesResponse, len(items))
	for i, item := range items {
		responses[i] = toCoordinatesResponse(item)
	}
	return responses
}

func isCoordinatesValidationError(err error) bool {
	return errors.Is(err, domain.ErrLatitudeOutOfRange) ||
		errors.Is(err, domain.ErrLongitudeOutOfRange)
}

// Create handles POST /api/coordinates.
func (h *CoordinatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req coordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	h.create(w, r, req)
}

func (h *CoordinatesHandler) create(w http.ResponseWriter, r *http.Request, req coordinatesRequest) {
	if req.ID != nil && *req.ID != 0 {
		setErrorAlert(w, errKeyIDExists, "coordinates")
		writeError(w, http.StatusBadRequest, "New coordinates cannot already have an ID")
		return
	}

	coordinates, err := h.service.Save(r.Context(), 0, req.Latitude, req.Longitude)
	if err != nil {
		if isCoordinatesValidationError(err) {
			setErrorAlert(w, errKeyValidation, "coordinates")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create coordinates", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create coordinates")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/coordinates/%d", coordinates.ID()))
	setCreationAlert(w, "coordinates", coordinates.ID())
	writeJSON(w, http.StatusCreated, toCoordinatesResponse(coordinates))
}

// Update handles PUT /api/coordinates, falling back to create when the body
// carries no identifier.
func (h *CoordinatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req coordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	if req.ID == nil || *req.ID == 0 {
		h.create(w, r, req)
		return
	}

	coordinates, err := h.service.Save(r.Context(), *req.ID, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, domain.ErrCoordinatesNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if isCoordinatesValidationError(err) {
			setErrorAlert(w, errKeyValidation, "coordinates")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update coordinates", "error", err, "coordinates_id", *req.ID)
		writeError(w, http.StatusInternalServerError, "Failed to update coordinates")
		return
	}

	setUpdateAlert(w, "coordinates", coordinates.ID())
	writeJSON(w, http.StatusOK, toCoordinatesResponse(coordinates))
}

// List handles GET /api/coordinates.
func (h *CoordinatesHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageRequest(r)

	result, err := h.service.FindAll(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list coordinates", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list coordinates")
		return
	}

	writePageHeaders(w, r, page, result.TotalCount)
	writeJSON(w, http.StatusOK, toCoordinatesResponses(result.Items))
}

// GetOne handles GET /api/coordinates/{id}.
func (h *CoordinatesHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Coordinates ID must be numeric")
		return
	}

	coordinates, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCoordinatesNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get coordinates", "error", err, "coordinates_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to get coordinates")
		return
	}

	writeJSON(w, http.StatusOK, toCoordinatesResponse(coordinates))
}

// Delete handles DELETE /api/coordinates/{id}. Idempotent.
func (h *CoordinatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Coordinates ID must be numeric")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete coordinates", "error", err, "coordinates_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete coordinates")
		return
	}

	setDeletionAlert(w, "coordinates", id)
	writeJSON(w, http.StatusOK, nil)
}

// Search handles GET /api/_search/coordinates?query=.
func (h *CoordinatesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'query' is required")
		return
	}

	page := parsePageRequest(r)

	result, err := h.service.Search(r.Context(), query, page)
	if err != nil {
		h.logger.Error("failed to search coordinates", "error", err, "query", query)
		writeError(w, http.StatusInternalServerError, "Failed to search coordinates")
		return
	}

	writePageHeaders(w, r, page, result.TotalCount)
	writeJSON(w, http.StatusOK, toCoordinatesResponses(result.Items))
}
