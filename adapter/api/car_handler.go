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

// CarHandler handles the car resource endpoints.
type CarHandler struct {
	service *application.CarService
	logger  *slog.Logger
}

// CarHandlerConfig holds dependencies for the car handler.
type CarHandlerConfig struct {
	Service *application.CarService
	Logger  *slog.Logger
}

// NewCarHandler creates a new car handler.
func NewCarHandler(cfg CarHandlerConfig) *CarHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &CarHandler{
		service: cfg.Service,
		logger:  cfg.Logger,
	}
}

// carRequest is the wire representation clients send on create and update.
type carRequest struct {
	ID            *int64   `json:"id"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	LicensePlate  string   `json:"licensePlate"`
	Color         string   `json:"color"`
	Year          int      `json:"year"`
	Parked        bool     `json:"parked"`
	Features      []string `json:"features"`
	Notes         string   `json:"notes"`
	CoordinatesID *int64   `json:"coordinatesId"`
}

func (req carRequest) attributes() domain.CarAttributes {
	return domain.CarAttributes{
		Make:          req.Make,
		Model:         req.Model,
		LicensePlate:  req.LicensePlate,
		Color:         req.Color,
		Year:          req.Year,
		Parked:        req.Parked,
		Features:      req.Features,
		Notes:         req.Notes,
		CoordinatesID: req.CoordinatesID,
	}
}

// carResponse is the wire representation of a persisted car.
type carResponse struct {
	ID            int64     `json:"id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	LicensePlate  string    `json:"licensePlate"`
	Color         string    `json:"color"`
	Year          int       `json:"year"`
	Parked        bool      `json:"parked"`
	Features      []string  `json:"features"`
	Notes         string    `json:"notes"`
	CoordinatesID *int64    `json:"coordinatesId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toCarResponse(car *domain.Car) carResponse {
	return carResponse{
		ID:            car.ID(),
		Make:          car.Make(),
		Model:         car.Model(),
		LicensePlate:  car.LicensePlate(),
		Color:         car.Color(),
		Year:          car.Year(),
		Parked:        car.IsParked(),
		Features:      car.Features(),
		Notes:         car.Notes(),
		CoordinatesID: car.CoordinatesID(),
		CreatedAt:     car.CreatedAt(),
		UpdatedAt:     car.UpdatedAt(),
	}
}

func toCarResponses(cars []*domain.Car) []carResponse {
	responses := make([]carResponse, len(cars))
	for i, car := range cars {
		responses[i] = toCarResponse(car)
	}
	return responses
}

func isCarValidationError(err error) bool {
	return errors.Is(err, domain.ErrCarBlankMake) ||
		errors.Is(err, domain.ErrCarBlankModel) ||
		errors.Is(err, domain.ErrCarInvalidYear)
}

// Create handles POST /api/cars. A body carrying an identifier is rejected;
// the store assigns identifiers.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	h.create(w, r, req)
}

func (h *CarHandler) create(w http.ResponseWriter, r *http.Request, req carRequest) {
	if req.ID != nil && *req.ID != 0 {
		setErrorAlert(w, errKeyIDExists, "car")
		writeError(w, http.StatusBadRequest, "A new car cannot already have an ID")
		return
	}

	car, err := h.service.Save(r.Context(), 0, req.attributes())
	if err != nil {
		if isCarValidationError(err) {
			setErrorAlert(w, errKeyValidation, "car")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create car", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create car")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/cars/%d", car.ID()))
	setCreationAlert(w, "car", car.ID())
	writeJSON(w, http.StatusCreated, toCarResponse(car))
}

// Update handles PUT /api/cars. A body without an identifier falls back to
// create, mirroring the single save contract.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	if req.ID == nil || *req.ID == 0 {
		h.create(w, r, req)
		return
	}

	car, err := h.service.Save(r.Context(), *req.ID, req.attributes())
	if err != nil {
		if errors.Is(err, domain.ErrCarNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if isCarValidationError(err) {
			setErrorAlert(w, errKeyValidation, "car")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update car", "error", err, "car_id", *req.ID)
		writeError(w, http.StatusInternalServerError, "Failed to update car")
		return
	}

	setUpdateAlert(w, "car", car.ID())
	writeJSON(w, http.StatusOK, toCarResponse(car))
}

// List handles GET /api/cars.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageRequest(r)

	result, err := h.service.FindAll(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list cars", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list cars")
		return
	}

	writePageHeaders(w, r, page, result.TotalCount)
	writeJSON(w, http.StatusOK, toCarResponses(result.Items))
}

// GetOne handles GET /api/cars/{id}.
func (h *CarHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Car ID must be numeric")
		return
	}

	car, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCarNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get car", "error", err, "car_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to get car")
		return
	}

	writeJSON(w, http.StatusOK, toCarResponse(car))
}

// Delete handles DELETE /api/cars/{id}. Deleting an absent car succeeds.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Car ID must be numeric")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete car", "error", err, "car_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete car")
		return
	}

	setDeletionAlert(w, "car", id)
	writeJSON(w, http.StatusOK, nil)
}

// Search handles GET /api/_search/cars?query=.
func (h *CarHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'query' is required")
		return
	}

	page := parsePageRequest(r)

	result, err := h.service.Search(r.Context(), query, page)
	if err != nil {
		h.logger.Error("failed to search cars", "error", err, "query", query)
		writeError(w, http.StatusInternalServerError, "Failed to search cars")
		return
	}

	writePageHeaders(w, r, page, result.TotalCount)
	writeJSON(w, http.StatusOK, toCarResponses(result.Items))
}
