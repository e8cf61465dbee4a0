package adaptor

import (
	"encoding/json"
	"net/http"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	in := usecase.CreateBookingInput{
		StudioID: uuid.MustParse(req.StudioID),
		ClientID: userID,
		Start:    req.StartDatetime,
		End:      req.EndDatetime,
		Notes:    req.Notes,
	}
	if req.ClientID != nil && role.CanManageBookings() {
		in.ClientID = uuid.MustParse(*req.ClientID)
	}
	for _, item := range req.Equipment {
		in.Equipment = append(in.Equipment, usecase.EquipmentLine{
			EquipmentID: uuid.MustParse(item.EquipmentID),
			Quantity:    item.Quantity,
		})
	}

	booking, err := h.service.CreateBooking(r.Context(), in)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// ListBookings handles GET /api/bookings (protected). Clients only see their own.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := request.ListBookingsRequest{
		Status:   query.Get("status"),
		StudioID: query.Get("studio_id"),
		ClientID: query.Get("client_id"),
		StaffID:  query.Get("staff_id"),
	}

	var err error
	if req.From, err = parseTimeParam(r, "from"); err != nil {
		utils.ResponseBadRequest(w, "Invalid from, use RFC3339", nil)
		return
	}
	if req.To, err = parseTimeParam(r, "to"); err != nil {
		utils.ResponseBadRequest(w, "Invalid to, use RFC3339", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	filter := repository.BookingFilter{From: req.From, To: req.To}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}
	filter.StudioID = optionalUUID(req.StudioID)
	filter.ClientID = optionalUUID(req.ClientID)
	filter.StaffID = optionalUUID(req.StaffID)
	if !role.CanManageBookings() {
		filter.ClientID = &userID
	}

	bookings, err := h.service.ListBookings(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	if !entity.CanViewBooking(role, booking.ClientID == userID.String()) {
		utils.ResponseForbidden(w, "Access denied")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// UpdateStatus handles PATCH /api/bookings/{id}/status (protected)
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	var req request.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	current, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	target := current.Status
	if req.Status != "" {
		target = entity.BookingStatus(req.Status)
	}
	isOwner := current.ClientID == userID.String()
	if !entity.CanUpdateStatus(role, target, isOwner) {
		h.log.Warn("Status change denied",
			zap.String("user_id", userID.String()),
			zap.String("booking_id", bookingID.String()),
			zap.String("target", string(target)))
		utils.ResponseForbidden(w, "Not allowed to change this booking")
		return
	}
	if !role.CanManageBookings() && (req.StaffID != nil || req.Notes != nil) {
		utils.ResponseForbidden(w, "Not allowed to change this booking")
		return
	}

	in := usecase.UpdateStatusInput{
		BookingID: bookingID,
		Status:    req.Status,
		Notes:     req.Notes,
		StaffID:   optionalUUID(derefString(req.StaffID)),
		Actor:     role,
	}

	booking, err := h.service.UpdateStatus(r.Context(), in)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// WarmIndex handles POST /api/admin/index/warm
func (h *BookingHandler) WarmIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Warm(r.Context()); err != nil {
		handleServiceError(w, h.log, err, "warm booking index")
		return
	}

	utils.ResponseSuccess(w, "Booking index warmed", nil)
}

func caller(r *http.Request) (uuid.UUID, entity.UserRole, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// optionalUUID parses an already validated id; empty yields nil.
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
