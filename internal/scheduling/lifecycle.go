package scheduling

import (
	"fmt"
	"time"

	"studio-booking/internal/data/entity"

	"github.com/google/uuid"
)

var transitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingStatusPending:   {entity.BookingStatusConfirmed, entity.BookingStatusCancelled, entity.BookingStatusCompleted},
	entity.BookingStatusConfirmed: {entity.BookingStatusCancelled, entity.BookingStatusCompleted},
	entity.BookingStatusCancelled: {},
	entity.BookingStatusCompleted: {},
}

// ParseStatus maps a requested status onto the enum.
func ParseStatus(s string) (entity.BookingStatus, error) {
	status := entity.BookingStatus(s)
	if !status.IsValid() {
		return "", &InvalidStatusError{Status: s}
	}
	return status, nil
}

// Transition describes a validated status change and the side effects it owes.
type Transition struct {
	From entity.BookingStatus
	To   entity.BookingStatus
	// Notify is empty when the change emits nothing.
	Notify entity.NotificationKind
	// Release is set when the booking leaves the active set.
	Release bool
}

// Changed reports whether the status moves.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// PlanTransition validates from -> to against the lifecycle table.
// A same-status request is always a legal edit with no notification.
func PlanTransition(from, to entity.BookingStatus) (Transition, error) {
	if !to.IsValid() {
		return Transition{}, &InvalidStatusError{Status: string(to)}
	}

	t := Transition{From: from, To: to}
	if from == to {
		return t, nil
	}

	allowed := false
	for _, s := range transitions[from] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return Transition{}, &InvalidTransitionError{From: from, To: to}
	}

	switch to {
	case entity.BookingStatusConfirmed:
		t.Notify = entity.NotificationBookingConfirmed
	case entity.BookingStatusCancelled:
		t.Notify = entity.NotificationBookingCancelled
		t.Release = true
	default:
		t.Notify = entity.NotificationStatusUpdate
	}
	return t, nil
}

// Change is a requested lifecycle step. Nil StaffID/Notes leave the field untouched.
type Change struct {
	Status  entity.BookingStatus
	StaffID *uuid.UUID
	Notes   *string
}

// Apply validates c against b and returns the updated copy. b itself is never
// modified, so a rejected change leaves the caller's record untouched.
// Terminal bookings accept a same-status request only when it changes nothing.
func Apply(b entity.Booking, c Change, now time.Time) (entity.Booking, Transition, error) {
	t, err := PlanTransition(b.Status, c.Status)
	if err != nil {
		return b, Transition{}, err
	}

	if b.Status.IsTerminal() {
		if staffChanges(b.StaffID, c.StaffID) || notesChange(b.Notes, c.Notes) {
			return b, Transition{}, &InvalidTransitionError{From: b.Status, To: c.Status}
		}
		return b, t, nil
	}

	updated := b
	updated.Status = c.Status
	if c.StaffID != nil {
		staff := *c.StaffID
		updated.StaffID = &staff
	}
	if c.Notes != nil {
		notes := *c.Notes
		updated.Notes = &notes
	}
	updated.UpdatedAt = now

	return updated, t, nil
}

func staffChanges(current, requested *uuid.UUID) bool {
	if requested == nil {
		return false
	}
	return current == nil || *current != *requested
}

func notesChange(current, requested *string) bool {
	if requested == nil {
		return false
	}
	return current == nil || *current != *requested
}

const messageTimeLayout = "Mon, 02 Jan 2006 15:04 MST"

// CreatedMessage is the text of the booking_confirmation sent on create.
func CreatedMessage(studioName string) string {
	return fmt.Sprintf("Your booking request for %s has been received and is pending confirmation.", studioName)
}

// TransitionMessage is the text sent to the client after a status change.
func TransitionMessage(t Transition, start time.Time) string {
	when := start.Format(messageTimeLayout)
	switch t.To {
	case entity.BookingStatusConfirmed:
		return fmt.Sprintf("Your booking for %s has been confirmed.", when)
	case entity.BookingStatusCancelled:
		return fmt.Sprintf("Your booking for %s has been cancelled.", when)
	case entity.BookingStatusCompleted:
		return fmt.Sprintf("Your booking for %s has been marked as completed.", when)
	default:
		return fmt.Sprintf("Your booking status has been updated to %s.", t.To)
	}
}
