package entity

import "github.com/google/uuid"

type Equipment struct {
	Base
	StudioID    uuid.UUID `db:"studio_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	HourlyRate  float64   `db:"hourly_rate"`
	IsAvailable bool      `db:"is_available"`
}
