package scheduling

import (
	"testing"

	"studio-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTransition(t *testing.T) {
	tests := []struct {
		from, to    entity.BookingStatus
		wantErr     error
		wantNotify  entity.NotificationKind
		wantRelease bool
	}{
		{entity.BookingStatusPending, entity.BookingStatusConfirmed, nil, entity.NotificationBookingConfirmed, false},
		{entity.BookingStatusPending, entity.BookingStatusCancelled, nil, entity.NotificationBookingCancelled, true},
		{entity.BookingStatusPending, entity.BookingStatusCompleted, nil, entity.NotificationStatusUpdate, false},
		{entity.BookingStatusConfirmed, entity.BookingStatusCancelled, nil, entity.NotificationBookingCancelled, true},
		{entity.BookingStatusConfirmed, entity.BookingStatusCompleted, nil, entity.NotificationStatusUpdate, false},
		{entity.BookingStatusPending, entity.BookingStatusPending, nil, "", false},
		{entity.BookingStatusConfirmed, entity.BookingStatusConfirmed, nil, "", false},
		{entity.BookingStatusCancelled, entity.BookingStatusCancelled, nil, "", false},
		{entity.BookingStatusConfirmed, entity.BookingStatusPending, ErrInvalidTransition, "", false},
		{entity.BookingStatusCancelled, entity.BookingStatusPending, ErrInvalidTransition, "", false},
		{entity.BookingStatusCancelled, entity.BookingStatusConfirmed, ErrInvalidTransition, "", false},
		{entity.BookingStatusCompleted, entity.BookingStatusCancelled, ErrInvalidTransition, "", false},
		{entity.BookingStatusCompleted, entity.BookingStatusConfirmed, ErrInvalidTransition, "", false},
		{entity.BookingStatusPending, "archived", ErrInvalidStatus, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			tr, err := PlanTransition(tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNotify, tr.Notify)
			assert.Equal(t, tt.wantRelease, tr.Release)
			assert.Equal(t, tt.from != tt.to, tr.Changed())
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, s)

	_, err = ParseStatus("Confirmed")
	var invalid *InvalidStatusError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Confirmed", invalid.Status)
}

func newBooking(status entity.BookingStatus) entity.Booking {
	notes := "bring the drum kit"
	return entity.Booking{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: at(-48, 0), UpdatedAt: at(-48, 0)},
		StudioID: uuid.New(),
		ClientID: uuid.New(),
		StartAt:  at(0, 0),
		EndAt:    at(2, 0),
		Status:   status,
		Notes:    &notes,
	}
}

func TestApply_ConfirmAssignsStaff(t *testing.T) {
	b := newBooking(entity.BookingStatusPending)
	staff := uuid.New()

	updated, tr, err := Apply(b, Change{Status: entity.BookingStatusConfirmed, StaffID: &staff}, at(-1, 0))
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusConfirmed, updated.Status)
	require.NotNil(t, updated.StaffID)
	assert.Equal(t, staff, *updated.StaffID)
	assert.Equal(t, at(-1, 0), updated.UpdatedAt)
	assert.Equal(t, entity.NotificationBookingConfirmed, tr.Notify)

	assert.Equal(t, entity.BookingStatusPending, b.Status, "input is not mutated")
	assert.Nil(t, b.StaffID)
}

func TestApply_EditKeepsStatus(t *testing.T) {
	b := newBooking(entity.BookingStatusConfirmed)
	notes := "two vocal mics"

	updated, tr, err := Apply(b, Change{Status: entity.BookingStatusConfirmed, Notes: &notes}, at(-1, 0))
	require.NoError(t, err)

	assert.Equal(t, "two vocal mics", *updated.Notes)
	assert.Equal(t, "bring the drum kit", *b.Notes)
	assert.False(t, tr.Changed())
	assert.Empty(t, tr.Notify)
}

func TestApply_TerminalImmutability(t *testing.T) {
	for _, status := range []entity.BookingStatus{entity.BookingStatusCancelled, entity.BookingStatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			b := newBooking(status)
			before := b
			staff := uuid.New()
			notes := "changed"

			for _, target := range []entity.BookingStatus{
				entity.BookingStatusPending, entity.BookingStatusConfirmed,
				entity.BookingStatusCancelled, entity.BookingStatusCompleted,
			} {
				if target == status {
					continue
				}
				got, _, err := Apply(b, Change{Status: target}, at(-1, 0))
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, before, got)
			}

			_, _, err := Apply(b, Change{Status: status, StaffID: &staff}, at(-1, 0))
			assert.ErrorIs(t, err, ErrInvalidTransition)
			_, _, err = Apply(b, Change{Status: status, Notes: &notes}, at(-1, 0))
			assert.ErrorIs(t, err, ErrInvalidTransition)

			got, tr, err := Apply(b, Change{Status: status}, at(-1, 0))
			require.NoError(t, err, "same-status request on a terminal booking is a no-op")
			assert.Equal(t, before, got)
			assert.Empty(t, tr.Notify)
			assert.False(t, tr.Release)

			assert.Equal(t, before, b)
		})
	}
}

func TestApply_UnknownStatus(t *testing.T) {
	b := newBooking(entity.BookingStatusPending)

	got, _, err := Apply(b, Change{Status: "on_hold"}, at(-1, 0))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, b, got)
}

func TestMessages(t *testing.T) {
	assert.Equal(t,
		"Your booking request for Studio A has been received and is pending confirmation.",
		CreatedMessage("Studio A"))

	start := at(0, 0)
	assert.Contains(t, TransitionMessage(Transition{To: entity.BookingStatusConfirmed}, start), "has been confirmed")
	assert.Contains(t, TransitionMessage(Transition{To: entity.BookingStatusCancelled}, start), "has been cancelled")
	assert.Contains(t, TransitionMessage(Transition{To: entity.BookingStatusCompleted}, start), "marked as completed")
	assert.Contains(t, TransitionMessage(Transition{To: entity.BookingStatusConfirmed}, start), "20 Oct 2026 10:00")
}
