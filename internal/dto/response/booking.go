package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type BookingEquipmentResponse struct {
	EquipmentID string `json:"equipment_id"`
	Quantity    int    `json:"quantity"`
}

type BookingResponse struct {
	ID            string                     `json:"id"`
	Reference     string                     `json:"reference"`
	StudioID      string                     `json:"studio_id"`
	ClientID      string                     `json:"client_id"`
	StaffID       *string                    `json:"staff_id,omitempty"`
	StartDatetime time.Time                  `json:"start_datetime"`
	EndDatetime   time.Time                  `json:"end_datetime"`
	Status        entity.BookingStatus       `json:"status"`
	Notes         *string                    `json:"notes,omitempty"`
	Equipment     []BookingEquipmentResponse `json:"equipment,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking, items []*entity.BookingEquipment) *BookingResponse {
	resp := &BookingResponse{
		ID:            b.ID.String(),
		Reference:     b.Reference,
		StudioID:      b.StudioID.String(),
		ClientID:      b.ClientID.String(),
		StartDatetime: b.StartAt,
		EndDatetime:   b.EndAt,
		Status:        b.Status,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.StaffID != nil {
		staff := b.StaffID.String()
		resp.StaffID = &staff
	}
	for _, item := range items {
		resp.Equipment = append(resp.Equipment, BookingEquipmentResponse{
			EquipmentID: item.EquipmentID.String(),
			Quantity:    item.Quantity,
		})
	}
	return resp
}
