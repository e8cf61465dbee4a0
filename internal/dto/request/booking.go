package request

import "time"

type BookingEquipmentItem struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid4"`
	Quantity    int    `json:"quantity" validate:"omitempty,min=1"`
}

type CreateBookingRequest struct {
	StudioID string `json:"studio_id" validate:"required,uuid4"`
	// ClientID lets staff book on behalf of a client. Ignored for clients.
	ClientID      *string                `json:"client_id,omitempty" validate:"omitempty,uuid4"`
	StartDatetime time.Time              `json:"start_datetime" validate:"required"`
	EndDatetime   time.Time              `json:"end_datetime" validate:"required,gtfield=StartDatetime"`
	Notes         *string                `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Equipment     []BookingEquipmentItem `json:"equipment,omitempty" validate:"omitempty,dive"`
}

type UpdateBookingStatusRequest struct {
	// Status is checked by the lifecycle so unknown values surface as 422.
	Status  string  `json:"status"`
	StaffID *string `json:"staff_id,omitempty" validate:"omitempty,uuid4"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ListBookingsRequest struct {
	Status   string     `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	StudioID string     `json:"studio_id" validate:"omitempty,uuid4"`
	ClientID string     `json:"client_id" validate:"omitempty,uuid4"`
	StaffID  string     `json:"staff_id" validate:"omitempty,uuid4"`
	From     *time.Time `json:"from"`
	To       *time.Time `json:"to"`
}
