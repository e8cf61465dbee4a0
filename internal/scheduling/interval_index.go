package scheduling

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Interval is the half-open window [Start, End) an active booking occupies.
type Interval struct {
	StudioID  uuid.UUID
	BookingID uuid.UUID
	Start     time.Time
	End       time.Time
}

// Overlaps reports whether [start, end) intersects the interval.
// Touching windows do not overlap.
func (iv Interval) Overlaps(start, end time.Time) bool {
	return start.Before(iv.End) && end.After(iv.Start)
}

// IntervalIndex keeps the active booking intervals of every studio, each
// studio's slice ordered by start. It never rejects an insert; deciding
// acceptability is the ConflictChecker's job.
type IntervalIndex struct {
	mu      sync.RWMutex
	studios map[uuid.UUID][]Interval
}

func NewIntervalIndex() *IntervalIndex {
	return &IntervalIndex{studios: make(map[uuid.UUID][]Interval)}
}

// Insert adds or replaces the interval of bookingID.
func (x *IntervalIndex) Insert(studioID, bookingID uuid.UUID, start, end time.Time) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.insertLocked(Interval{StudioID: studioID, BookingID: bookingID, Start: start, End: end})
}

// Load replaces the interval set of every studio present in the batch.
// Studios absent from the batch keep their intervals.
func (x *IntervalIndex) Load(intervals []Interval) {
	byStudio := make(map[uuid.UUID][]Interval)
	for _, iv := range intervals {
		byStudio[iv.StudioID] = append(byStudio[iv.StudioID], iv)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for studioID, list := range byStudio {
		x.replaceLocked(studioID, list)
	}
}

// Replace swaps the studio's whole interval set for intervals. An empty
// slice clears the studio.
func (x *IntervalIndex) Replace(studioID uuid.UUID, intervals []Interval) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.replaceLocked(studioID, intervals)
}

func (x *IntervalIndex) replaceLocked(studioID uuid.UUID, intervals []Interval) {
	delete(x.studios, studioID)
	for _, iv := range intervals {
		iv.StudioID = studioID
		x.insertLocked(iv)
	}
}

// Studios returns the ids of every studio holding at least one interval.
func (x *IntervalIndex) Studios() []uuid.UUID {
	x.mu.RLock()
	defer x.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(x.studios))
	for id := range x.studios {
		ids = append(ids, id)
	}
	return ids
}

func (x *IntervalIndex) insertLocked(iv Interval) {
	list := removeBooking(x.studios[iv.StudioID], iv.BookingID)

	pos := sort.Search(len(list), func(i int) bool {
		return list[i].Start.After(iv.Start)
	})
	list = append(list, Interval{})
	copy(list[pos+1:], list[pos:])
	list[pos] = iv

	x.studios[iv.StudioID] = list
}

// Remove drops the interval of bookingID. Removing an unknown booking is a no-op.
func (x *IntervalIndex) Remove(studioID, bookingID uuid.UUID) {
	x.mu.Lock()
	defer x.mu.Unlock()

	list, ok := x.studios[studioID]
	if !ok {
		return
	}

	list = removeBooking(list, bookingID)
	if len(list) == 0 {
		delete(x.studios, studioID)
		return
	}
	x.studios[studioID] = list
}

// Overlaps returns the ids of every indexed booking of the studio intersecting [start, end).
func (x *IntervalIndex) Overlaps(studioID uuid.UUID, start, end time.Time) []uuid.UUID {
	hits := x.Intervals(studioID, start, end)
	if len(hits) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(hits))
	for i, iv := range hits {
		ids[i] = iv.BookingID
	}
	return ids
}

// Intervals returns copies of the studio's intervals intersecting [start, end), ordered by start.
func (x *IntervalIndex) Intervals(studioID uuid.UUID, start, end time.Time) []Interval {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var hits []Interval
	for _, iv := range x.studios[studioID] {
		if !iv.Start.Before(end) {
			break
		}
		if iv.Overlaps(start, end) {
			hits = append(hits, iv)
		}
	}
	return hits
}

// Len returns the number of intervals indexed for the studio.
func (x *IntervalIndex) Len(studioID uuid.UUID) int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.studios[studioID])
}

func removeBooking(list []Interval, bookingID uuid.UUID) []Interval {
	for i, iv := range list {
		if iv.BookingID == bookingID {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
