package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsValid reports whether s is one of the four known statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// IsActive reports whether a booking in this status occupies its studio slot.
func (s BookingStatus) IsActive() bool {
	return s.IsValid() && s != BookingStatusCancelled
}

type Booking struct {
	Base
	Reference string        `db:"reference"`
	StudioID  uuid.UUID     `db:"studio_id"`
	ClientID  uuid.UUID     `db:"client_id"`
	StaffID   *uuid.UUID    `db:"staff_id"`
	StartAt   time.Time     `db:"start_at"`
	EndAt     time.Time     `db:"end_at"`
	Status    BookingStatus `db:"status"`
	Notes     *string       `db:"notes"`
}
