package request

type StudioEquipmentItem struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	HourlyRate  float64 `json:"hourly_rate" validate:"gte=0"`
}

type CreateStudioRequest struct {
	Name        string                `json:"name" validate:"required,max=100"`
	Description *string               `json:"description,omitempty"`
	Capacity    *int                  `json:"capacity,omitempty" validate:"omitempty,min=1"`
	HourlyRate  float64               `json:"hourly_rate" validate:"gte=0"`
	Equipment   []StudioEquipmentItem `json:"equipment,omitempty" validate:"omitempty,dive"`
}

// UpdateStudioRequest changes only the fields present in the body.
type UpdateStudioRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty"`
	Capacity    *int     `json:"capacity,omitempty" validate:"omitempty,min=1"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
