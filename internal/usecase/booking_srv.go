package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/response"
	"studio-booking/internal/notify"
	"studio-booking/internal/scheduling"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultAvailabilityWindow = 7 * 24 * time.Hour
	notifyTimeout             = 5 * time.Second
)

type EquipmentLine struct {
	EquipmentID uuid.UUID
	Quantity    int
}

type CreateBookingInput struct {
	StudioID  uuid.UUID
	ClientID  uuid.UUID
	Start     time.Time
	End       time.Time
	Notes     *string
	Equipment []EquipmentLine
}

type UpdateStatusInput struct {
	BookingID uuid.UUID
	// Status empty keeps the current status, making the call a plain edit.
	Status  string
	StaffID *uuid.UUID
	Notes   *string
	Actor   entity.UserRole
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*response.BookingResponse, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]*response.BookingResponse, error)
	Availability(ctx context.Context, studioID uuid.UUID, from, to time.Time) (*response.AvailabilityResponse, error)
	// Warm loads the persisted active bookings into the in-memory index.
	Warm(ctx context.Context) error
}

type Option func(*bookingService)

// WithClock replaces time.Now for lead-time checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) { s.now = now }
}

type bookingService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	index    *scheduling.IntervalIndex
	checker  *scheduling.ConflictChecker
	locks    *scheduling.StudioLocks
	now      func() time.Time
	log      *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	notifier notify.Notifier,
	cfg utils.SchedulingConfig,
	log *zap.Logger,
	opts ...Option,
) BookingService {
	s := &bookingService{
		repo:     repo,
		notifier: notifier,
		index:    scheduling.NewIntervalIndex(),
		locks:    scheduling.NewStudioLocks(),
		now:      time.Now,
		log:      log.With(zap.String("service", "booking")),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.checker = scheduling.NewConflictChecker(s.index, cfg.MinLeadTime, s.now)
	return s
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*response.BookingResponse, error) {
	if err := s.checker.ValidateWindow(in.Start, in.End); err != nil {
		return nil, err
	}

	studio, err := s.repo.Studio.FindByID(ctx, in.StudioID)
	if err != nil {
		return nil, fmt.Errorf("load studio %s: %w", in.StudioID.String(), err)
	}
	if studio == nil {
		return nil, &scheduling.NotFoundError{Resource: "studio", ID: in.StudioID.String()}
	}
	if !studio.IsActive {
		return nil, &scheduling.ValidationError{Field: "studio_id", Reason: "is not accepting bookings"}
	}

	lines, err := s.checkEquipment(ctx, in.StudioID, in.Equipment)
	if err != nil {
		return nil, err
	}

	reference, err := utils.GenerateBookingReference(in.Start)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference: reference,
		StudioID:  in.StudioID,
		ClientID:  in.ClientID,
		StartAt:   in.Start,
		EndAt:     in.End,
		Status:    entity.BookingStatusPending,
		Notes:     in.Notes,
	}

	items := make([]*entity.BookingEquipment, 0, len(lines))
	for _, line := range lines {
		items = append(items, &entity.BookingEquipment{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:   booking.ID,
			EquipmentID: line.EquipmentID,
			Quantity:    line.Quantity,
		})
	}

	if err := s.reserve(ctx, booking, items); err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("studio_id", booking.StudioID.String()),
		zap.Time("start", booking.StartAt),
		zap.Time("end", booking.EndAt),
	)

	s.emit(ctx, notify.Notification{
		Kind:      entity.NotificationBookingConfirmation,
		UserID:    booking.ClientID,
		BookingID: booking.ID,
		Message:   scheduling.CreatedMessage(studio.Name),
	})

	return response.BookingToResponse(booking, items), nil
}

// reserve runs check, persist and index insert as one step under the studio lock.
func (s *bookingService) reserve(ctx context.Context, booking *entity.Booking, items []*entity.BookingEquipment) error {
	unlock := s.locks.Lock(booking.StudioID)
	defer unlock()

	decision, err := s.checker.CheckAvailability(booking.StudioID, booking.StartAt, booking.EndAt, nil)
	if err != nil {
		return err
	}
	if err := decision.Err(booking.StudioID); err != nil {
		s.log.Info("Booking rejected",
			zap.String("studio_id", booking.StudioID.String()),
			zap.Int("conflicts", len(decision.ConflictingIDs)),
		)
		return err
	}

	if err := s.repo.Booking.CreateWithEquipment(ctx, booking, items); err != nil {
		var overlap *repository.OverlapError
		if errors.As(err, &overlap) {
			s.log.Warn("Store rejected booking the index accepted",
				zap.String("studio_id", booking.StudioID.String()),
				zap.Int("conflicts", len(overlap.BookingIDs)),
			)
			return &scheduling.ConflictError{StudioID: booking.StudioID, ConflictingIDs: overlap.BookingIDs}
		}
		return fmt.Errorf("persist booking %s: %w", booking.Reference, err)
	}

	s.index.Insert(booking.StudioID, booking.ID, booking.StartAt, booking.EndAt)
	return nil
}

func (s *bookingService) checkEquipment(ctx context.Context, studioID uuid.UUID, lines []EquipmentLine) ([]EquipmentLine, error) {
	seen := make(map[uuid.UUID]bool, len(lines))
	out := make([]EquipmentLine, 0, len(lines))

	for _, line := range lines {
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		if line.Quantity < 1 {
			return nil, &scheduling.ValidationError{Field: "equipment.quantity", Reason: "must be at least 1"}
		}
		if seen[line.EquipmentID] {
			return nil, &scheduling.ValidationError{Field: "equipment", Reason: "lists " + line.EquipmentID.String() + " more than once"}
		}
		seen[line.EquipmentID] = true

		ok, err := s.repo.Equipment.IsAvailable(ctx, studioID, line.EquipmentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &scheduling.ValidationError{
				Field:  "equipment",
				Reason: line.EquipmentID.String() + " is not available for this studio",
			}
		}
		out = append(out, line)
	}

	return out, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*response.BookingResponse, error) {
	current, err := s.load(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	target := current.Status
	if in.Status != "" {
		if target, err = scheduling.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	updated, t, err := s.transition(ctx, current.StudioID, in.BookingID, scheduling.Change{
		Status:  target,
		StaffID: in.StaffID,
		Notes:   in.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", updated.ID.String()),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
		zap.String("actor", string(in.Actor)),
	)

	if t.Notify != "" {
		s.emit(ctx, notify.Notification{
			Kind:      t.Notify,
			UserID:    updated.ClientID,
			BookingID: updated.ID,
			Message:   scheduling.TransitionMessage(t, updated.StartAt),
		})
	}

	items, err := s.repo.Booking.FindEquipment(ctx, updated.ID)
	if err != nil {
		s.log.Warn("Failed to load booking equipment", zap.Error(err), zap.String("booking_id", updated.ID.String()))
	}

	return response.BookingToResponse(updated, items), nil
}

// transition applies c to the freshest copy of the booking under the studio lock.
func (s *bookingService) transition(ctx context.Context, studioID, bookingID uuid.UUID, c scheduling.Change) (*entity.Booking, scheduling.Transition, error) {
	unlock := s.locks.Lock(studioID)
	defer unlock()

	current, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, scheduling.Transition{}, err
	}

	updated, t, err := scheduling.Apply(*current, c, s.now())
	if err != nil {
		return nil, scheduling.Transition{}, err
	}

	if current.Status.IsTerminal() {
		// Accepted same-status request on a finished booking: nothing to write.
		return current, t, nil
	}

	if err := s.repo.Booking.Update(ctx, &updated, current.Status); err != nil {
		if errors.Is(err, repository.ErrBookingStale) {
			return nil, scheduling.Transition{}, s.resync(ctx, bookingID, c.Status)
		}
		return nil, scheduling.Transition{}, fmt.Errorf("persist booking %s: %w", updated.ID.String(), err)
	}

	if t.Release {
		s.index.Remove(updated.StudioID, updated.ID)
	}

	return &updated, t, nil
}

// resync handles a booking another writer changed after it was read. The
// index follows the stored row and the caller gets the transition error
// against the stored status. Must run under the studio lock.
func (s *bookingService) resync(ctx context.Context, bookingID uuid.UUID, target entity.BookingStatus) error {
	fresh, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}

	if fresh.Status.IsActive() {
		s.index.Insert(fresh.StudioID, fresh.ID, fresh.StartAt, fresh.EndAt)
	} else {
		s.index.Remove(fresh.StudioID, fresh.ID)
	}

	s.log.Warn("Booking changed concurrently",
		zap.String("booking_id", bookingID.String()),
		zap.String("stored_status", string(fresh.Status)),
		zap.String("target", string(target)),
	)
	return &scheduling.InvalidTransitionError{From: fresh.Status, To: target}
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Booking.FindEquipment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load equipment for booking %s: %w", id.String(), err)
	}

	return response.BookingToResponse(booking, items), nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]*response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, response.BookingToResponse(b, nil))
	}
	return out, nil
}

func (s *bookingService) Availability(ctx context.Context, studioID uuid.UUID, from, to time.Time) (*response.AvailabilityResponse, error) {
	studio, err := s.repo.Studio.FindByID(ctx, studioID)
	if err != nil {
		return nil, fmt.Errorf("load studio %s: %w", studioID.String(), err)
	}
	if studio == nil {
		return nil, &scheduling.NotFoundError{Resource: "studio", ID: studioID.String()}
	}

	if from.IsZero() {
		from = s.now()
	}
	if to.IsZero() {
		to = from.Add(defaultAvailabilityWindow)
	}
	if !to.After(from) {
		return nil, &scheduling.ValidationError{Field: "to", Reason: "must be after from"}
	}

	resp := &response.AvailabilityResponse{
		StudioID:      studioID.String(),
		From:          from,
		To:            to,
		EarliestStart: s.checker.EarliestStart(),
		Busy:          []response.BusySlot{},
	}
	for _, iv := range s.index.Intervals(studioID, from, to) {
		resp.Busy = append(resp.Busy, response.BusySlot{
			BookingID:     iv.BookingID.String(),
			StartDatetime: iv.Start,
			EndDatetime:   iv.End,
		})
	}

	return resp, nil
}

// Warm rebuilds the index from the store one studio at a time, each under its
// studio lock, so a concurrent cancel cannot be undone by a stale read.
func (s *bookingService) Warm(ctx context.Context) error {
	active, err := s.repo.Booking.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("warm booking index: %w", err)
	}

	studios := make(map[uuid.UUID]struct{})
	for _, b := range active {
		studios[b.StudioID] = struct{}{}
	}
	for _, id := range s.index.Studios() {
		studios[id] = struct{}{}
	}

	total := 0
	for studioID := range studios {
		n, err := s.warmStudio(ctx, studioID)
		if err != nil {
			return fmt.Errorf("warm booking index: %w", err)
		}
		total += n
	}

	s.log.Info("Booking index warmed", zap.Int("studios", len(studios)), zap.Int("bookings", total))
	return nil
}

func (s *bookingService) warmStudio(ctx context.Context, studioID uuid.UUID) (int, error) {
	unlock := s.locks.Lock(studioID)
	defer unlock()

	bookings, err := s.repo.Booking.FindActiveByStudio(ctx, studioID)
	if err != nil {
		return 0, err
	}

	intervals := make([]scheduling.Interval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, scheduling.Interval{
			StudioID:  b.StudioID,
			BookingID: b.ID,
			Start:     b.StartAt,
			End:       b.EndAt,
		})
	}
	s.index.Replace(studioID, intervals)

	return len(intervals), nil
}

func (s *bookingService) load(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", id.String(), err)
	}
	if booking == nil {
		return nil, &scheduling.NotFoundError{Resource: "booking", ID: id.String()}
	}
	return booking, nil
}

// emit delivers n outliving the request context but bounded by notifyTimeout.
// Failures are logged only.
func (s *bookingService) emit(ctx context.Context, n notify.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("Failed to deliver notification",
			zap.Error(err),
			zap.String("kind", string(n.Kind)),
			zap.String("booking_id", n.BookingID.String()),
		)
	}
}
