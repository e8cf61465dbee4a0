package entity

import "github.com/google/uuid"

type BookingEquipment struct {
	BaseSimple
	BookingID   uuid.UUID `db:"booking_id"`
	EquipmentID uuid.UUID `db:"equipment_id"`
	Quantity    int       `db:"quantity"`
}
