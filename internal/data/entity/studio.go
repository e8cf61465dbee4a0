package entity

type Studio struct {
	Base
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Capacity    *int    `db:"capacity"`
	HourlyRate  float64 `db:"hourly_rate"`
	IsActive    bool    `db:"is_active"`
}
