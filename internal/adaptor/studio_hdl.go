package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"studio-booking/internal/dto/request"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StudioHandler struct {
	studios  usecase.StudioService
	bookings usecase.BookingService
	log      *zap.Logger
}

func NewStudioHandler(studios usecase.StudioService, bookings usecase.BookingService, log *zap.Logger) *StudioHandler {
	return &StudioHandler{
		studios:  studios,
		bookings: bookings,
		log:      log.With(zap.String("handler", "studio")),
	}
}

// ListStudios handles GET /api/studios
func (h *StudioHandler) ListStudios(w http.ResponseWriter, r *http.Request) {
	studios, err := h.studios.ListStudios(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list studios")
		return
	}

	utils.ResponseSuccess(w, "success", studios)
}

// GetStudio handles GET /api/studios/{id}
func (h *StudioHandler) GetStudio(w http.ResponseWriter, r *http.Request) {
	studioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid studio ID", nil)
		return
	}

	studio, err := h.studios.GetStudio(r.Context(), studioID)
	if err != nil {
		handleServiceError(w, h.log, err, "get studio")
		return
	}

	utils.ResponseSuccess(w, "success", studio)
}

// CreateStudio handles POST /api/studios (admin)
func (h *StudioHandler) CreateStudio(w http.ResponseWriter, r *http.Request) {
	var req request.CreateStudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	studio, err := h.studios.CreateStudio(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create studio")
		return
	}

	utils.ResponseCreated(w, "Studio created", studio)
}

// UpdateStudio handles PUT /api/studios/{id} (admin)
func (h *StudioHandler) UpdateStudio(w http.ResponseWriter, r *http.Request) {
	studioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid studio ID", nil)
		return
	}

	var req request.UpdateStudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	studio, err := h.studios.UpdateStudio(r.Context(), studioID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update studio")
		return
	}

	utils.ResponseSuccess(w, "Studio updated", studio)
}

// Availability handles GET /api/studios/{id}/availability?from=&to=
func (h *StudioHandler) Availability(w http.ResponseWriter, r *http.Request) {
	studioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid studio ID", nil)
		return
	}

	from, err := parseTimeParam(r, "from")
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid from, use RFC3339", nil)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid to, use RFC3339", nil)
		return
	}

	var fromT, toT time.Time
	if from != nil {
		fromT = *from
	}
	if to != nil {
		toT = *to
	}

	avail, err := h.bookings.Availability(r.Context(), studioID, fromT, toT)
	if err != nil {
		handleServiceError(w, h.log, err, "studio availability")
		return
	}

	utils.ResponseSuccess(w, "success", avail)
}

// parseTimeParam reads an optional RFC3339 query parameter.
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
