package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type StudioResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Capacity    *int                `json:"capacity,omitempty"`
	HourlyRate  float64             `json:"hourly_rate"`
	IsActive    bool                `json:"is_active"`
	Equipment   []EquipmentResponse `json:"equipment,omitempty"`
}

type EquipmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	HourlyRate  float64 `json:"hourly_rate"`
	IsAvailable bool    `json:"is_available"`
}

type BusySlot struct {
	BookingID     string    `json:"booking_id"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
}

type AvailabilityResponse struct {
	StudioID      string     `json:"studio_id"`
	From          time.Time  `json:"from"`
	To            time.Time  `json:"to"`
	EarliestStart time.Time  `json:"earliest_start"`
	Busy          []BusySlot `json:"busy"`
}

// Helper converters
func StudioToResponse(s *entity.Studio, equipment []*entity.Equipment) StudioResponse {
	resp := StudioResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Capacity:    s.Capacity,
		HourlyRate:  s.HourlyRate,
		IsActive:    s.IsActive,
	}
	for _, e := range equipment {
		resp.Equipment = append(resp.Equipment, EquipmentResponse{
			ID:          e.ID.String(),
			Name:        e.Name,
			Description: e.Description,
			HourlyRate:  e.HourlyRate,
			IsAvailable: e.IsAvailable,
		})
	}
	return resp
}
