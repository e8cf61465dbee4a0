package scheduling

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMinLeadTime is how far ahead of now a booking must start.
	DefaultMinLeadTime = time.Hour

	slotGranularity = 30 * time.Minute
)

// Decision is the outcome of an availability check.
type Decision struct {
	Accepted       bool
	ConflictingIDs []uuid.UUID
}

// Err converts a rejection into a ConflictError, nil when accepted.
func (d Decision) Err(studioID uuid.UUID) error {
	if d.Accepted {
		return nil
	}
	return &ConflictError{StudioID: studioID, ConflictingIDs: d.ConflictingIDs}
}

// ConflictChecker makes the accept/reject decision for a proposed reservation
// by reading the IntervalIndex at call time. Callers serialise check and
// insert per studio.
type ConflictChecker struct {
	index   *IntervalIndex
	minLead time.Duration
	now     func() time.Time
}

func NewConflictChecker(index *IntervalIndex, minLead time.Duration, now func() time.Time) *ConflictChecker {
	if minLead < 0 {
		minLead = DefaultMinLeadTime
	}
	if now == nil {
		now = time.Now
	}
	return &ConflictChecker{index: index, minLead: minLead, now: now}
}

// ValidateWindow rejects windows that are empty, inverted or start too soon.
func (c *ConflictChecker) ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return &ValidationError{Field: "start_datetime", Reason: "and end_datetime are required"}
	}
	if !end.After(start) {
		return &ValidationError{Field: "end_datetime", Reason: "must be after start_datetime"}
	}
	if start.Before(c.now().Add(c.minLead)) {
		return &ValidationError{
			Field:  "start_datetime",
			Reason: "must be at least " + c.minLead.String() + " from now",
		}
	}
	return nil
}

// CheckAvailability accepts [start, end) for the studio unless an indexed
// booking other than exclude overlaps it.
func (c *ConflictChecker) CheckAvailability(studioID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (Decision, error) {
	if err := c.ValidateWindow(start, end); err != nil {
		return Decision{}, err
	}

	var conflicts []uuid.UUID
	for _, id := range c.index.Overlaps(studioID, start, end) {
		if exclude != nil && id == *exclude {
			continue
		}
		conflicts = append(conflicts, id)
	}

	if len(conflicts) > 0 {
		return Decision{ConflictingIDs: conflicts}, nil
	}
	return Decision{Accepted: true}, nil
}

// EarliestStart is now plus the lead time rounded up to the next half hour.
// It is a hint for clients picking a slot, not a rule CheckAvailability enforces.
func (c *ConflictChecker) EarliestStart() time.Time {
	t := c.now().Add(c.minLead)
	rounded := t.Truncate(slotGranularity)
	if rounded.Before(t) {
		rounded = rounded.Add(slotGranularity)
	}
	return rounded
}

// MinLeadTime returns the configured lead time.
func (c *ConflictChecker) MinLeadTime() time.Duration {
	return c.minLead
}
