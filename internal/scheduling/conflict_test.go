package scheduling

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestConflictChecker_HalfOpenBoundary(t *testing.T) {
	idx := NewIntervalIndex()
	checker := NewConflictChecker(idx, DefaultMinLeadTime, fixedClock(at(-24, 0)))
	studio := uuid.New()
	first := uuid.New()

	d, err := checker.CheckAvailability(studio, at(0, 0), at(1, 0), nil)
	require.NoError(t, err)
	require.True(t, d.Accepted)
	idx.Insert(studio, first, at(0, 0), at(1, 0))

	d, err = checker.CheckAvailability(studio, at(1, 0), at(2, 0), nil)
	require.NoError(t, err)
	assert.True(t, d.Accepted, "touching window is accepted")

	d, err = checker.CheckAvailability(studio, at(0, 30), at(1, 30), nil)
	require.NoError(t, err)
	assert.False(t, d.Accepted)
	assert.Equal(t, []uuid.UUID{first}, d.ConflictingIDs)

	var conflict *ConflictError
	require.ErrorAs(t, d.Err(studio), &conflict)
	assert.Equal(t, []uuid.UUID{first}, conflict.ConflictingIDs)
	assert.ErrorIs(t, d.Err(studio), ErrConflict)
}

func TestConflictChecker_ExcludeBooking(t *testing.T) {
	idx := NewIntervalIndex()
	checker := NewConflictChecker(idx, DefaultMinLeadTime, fixedClock(at(-24, 0)))
	studio, self := uuid.New(), uuid.New()
	idx.Insert(studio, self, at(0, 0), at(2, 0))

	d, err := checker.CheckAvailability(studio, at(1, 0), at(3, 0), &self)
	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.NoError(t, d.Err(studio))
}

func TestConflictChecker_ValidateWindow(t *testing.T) {
	now := at(0, 0)
	checker := NewConflictChecker(NewIntervalIndex(), time.Hour, fixedClock(now))

	tests := []struct {
		name       string
		start, end time.Time
		wantErr    bool
	}{
		{"valid", now.Add(2 * time.Hour), now.Add(3 * time.Hour), false},
		{"exactly lead time ahead", now.Add(time.Hour), now.Add(2 * time.Hour), false},
		{"inside lead time", now.Add(59 * time.Minute), now.Add(2 * time.Hour), true},
		{"in the past", now.Add(-time.Hour), now.Add(time.Hour), true},
		{"end equals start", now.Add(2 * time.Hour), now.Add(2 * time.Hour), true},
		{"end before start", now.Add(3 * time.Hour), now.Add(2 * time.Hour), true},
		{"zero times", time.Time{}, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.ValidateWindow(tt.start, tt.end)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.True(t, errors.Is(err, ErrValidation))

			_, checkErr := checker.CheckAvailability(uuid.New(), tt.start, tt.end, nil)
			assert.ErrorIs(t, checkErr, ErrValidation)
		})
	}
}

func TestConflictChecker_EarliestStart(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{at(0, 10), at(1, 30)},
		{at(0, 30), at(1, 30)},
		{at(0, 31), at(2, 0)},
		{at(0, 0), at(1, 0)},
	}

	for _, tt := range tests {
		checker := NewConflictChecker(NewIntervalIndex(), time.Hour, fixedClock(tt.now))
		assert.Equal(t, tt.want, checker.EarliestStart(), "now=%s", tt.now)
	}
}

func TestConflictChecker_NonOverlapInvariant(t *testing.T) {
	idx := NewIntervalIndex()
	checker := NewConflictChecker(idx, 0, fixedClock(at(-1, 0)))
	studio := uuid.New()
	rng := rand.New(rand.NewSource(42))

	var accepted []Interval
	for i := 0; i < 500; i++ {
		start := at(0, rng.Intn(48*60))
		end := start.Add(time.Duration(15+rng.Intn(180)) * time.Minute)

		d, err := checker.CheckAvailability(studio, start, end, nil)
		require.NoError(t, err)
		if !d.Accepted {
			continue
		}
		id := uuid.New()
		idx.Insert(studio, id, start, end)
		accepted = append(accepted, Interval{StudioID: studio, BookingID: id, Start: start, End: end})

		// Randomly cancel some bookings to exercise removal.
		if rng.Intn(5) == 0 {
			victim := rng.Intn(len(accepted))
			idx.Remove(studio, accepted[victim].BookingID)
			accepted = append(accepted[:victim], accepted[victim+1:]...)
		}
	}

	require.NotEmpty(t, accepted)
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i], accepted[j]
			assert.False(t, a.Overlaps(b.Start, b.End), "bookings %s and %s overlap", a.BookingID, b.BookingID)
		}
	}
	assert.Equal(t, len(accepted), idx.Len(studio))
}
