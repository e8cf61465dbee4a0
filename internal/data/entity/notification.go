package entity

import "github.com/google/uuid"

type NotificationKind string

const (
	NotificationBookingConfirmation NotificationKind = "booking_confirmation"
	NotificationBookingConfirmed    NotificationKind = "booking_confirmed"
	NotificationBookingCancelled    NotificationKind = "booking_cancelled"
	NotificationStatusUpdate        NotificationKind = "status_update"
)

type Notification struct {
	BaseSimple
	UserID    uuid.UUID        `db:"user_id"`
	BookingID uuid.UUID        `db:"booking_id"`
	Kind      NotificationKind `db:"kind"`
	Message   string           `db:"message"`
	IsRead    bool             `db:"is_read"`
}
