package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/notify"

	"github.com/google/uuid"
)

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]entity.Booking
	equipment map[uuid.UUID][]*entity.BookingEquipment
	createErr error
	overlap   []uuid.UUID

	// afterActiveSnapshot runs after FindActive has read the store and before it returns.
	afterActiveSnapshot func()
	// beforeUpdate runs ahead of the guarded write, standing in for another writer.
	beforeUpdate func(id uuid.UUID)
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:  make(map[uuid.UUID]entity.Booking),
		equipment: make(map[uuid.UUID][]*entity.BookingEquipment),
	}
}

func (f *fakeBookingRepo) CreateWithEquipment(_ context.Context, b *entity.Booking, items []*entity.BookingEquipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if len(f.overlap) > 0 {
		return &repository.OverlapError{StudioID: b.StudioID, BookingIDs: f.overlap}
	}
	f.bookings[b.ID] = *b
	f.equipment[b.ID] = items
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBookingRepo) FindAll(_ context.Context, filter repository.BookingFilter) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Booking
	for _, b := range f.bookings {
		if filter.ClientID != nil && b.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.StudioID != nil && b.StudioID != *filter.StudioID {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (f *fakeBookingRepo) FindActive(ctx context.Context) ([]*entity.Booking, error) {
	all, _ := f.FindAll(ctx, repository.BookingFilter{})
	var out []*entity.Booking
	for _, b := range all {
		if b.Status.IsActive() {
			out = append(out, b)
		}
	}
	if f.afterActiveSnapshot != nil {
		f.afterActiveSnapshot()
	}
	return out, nil
}

func (f *fakeBookingRepo) FindActiveByStudio(ctx context.Context, studioID uuid.UUID) ([]*entity.Booking, error) {
	all, _ := f.FindAll(ctx, repository.BookingFilter{StudioID: &studioID})
	var out []*entity.Booking
	for _, b := range all {
		if b.Status.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

// setStatus changes a stored row without going through the service.
func (f *fakeBookingRepo) setStatus(id uuid.UUID, status entity.BookingStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bookings[id]
	b.Status = status
	f.bookings[id] = b
}

func (f *fakeBookingRepo) FindEquipment(_ context.Context, bookingID uuid.UUID) ([]*entity.BookingEquipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.equipment[bookingID], nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *entity.Booking, prev entity.BookingStatus) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate(b.ID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.bookings[b.ID]
	if !ok || stored.Status != prev {
		return repository.ErrBookingStale
	}
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

type fakeStudioRepo struct {
	studios   map[uuid.UUID]*entity.Studio
	equipment map[uuid.UUID][]*entity.Equipment
}

func (f *fakeStudioRepo) Create(_ context.Context, s *entity.Studio, equipment []*entity.Equipment) error {
	f.studios[s.ID] = s
	if f.equipment == nil {
		f.equipment = make(map[uuid.UUID][]*entity.Equipment)
	}
	f.equipment[s.ID] = equipment
	return nil
}

func (f *fakeStudioRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Studio, error) {
	s, ok := f.studios[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudioRepo) Update(_ context.Context, s *entity.Studio) error {
	cp := *s
	f.studios[s.ID] = &cp
	return nil
}

func (f *fakeStudioRepo) FindAllActive(context.Context) ([]*entity.Studio, error) {
	var out []*entity.Studio
	for _, s := range f.studios {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeEquipmentRepo struct {
	items map[uuid.UUID]*entity.Equipment
}

func (f *fakeEquipmentRepo) FindByStudioID(_ context.Context, studioID uuid.UUID) ([]*entity.Equipment, error) {
	var out []*entity.Equipment
	for _, e := range f.items {
		if e.StudioID == studioID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEquipmentRepo) IsAvailable(_ context.Context, studioID, equipmentID uuid.UUID) (bool, error) {
	e, ok := f.items[equipmentID]
	return ok && e.StudioID == studioID && e.IsAvailable, nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.users[email], nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	f.sessions[s.Token] = s
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	s, ok := f.sessions[token]
	if !ok || !s.Active(time.Now()) {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrSessionNotFound
	}
	s.Revoke(time.Now())
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	sent      []notify.Notification
	deadlines []bool
	err       error
}

func (r *recordingNotifier) Notify(ctx context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	_, ok := ctx.Deadline()
	r.deadlines = append(r.deadlines, ok)
	return r.err
}

func (r *recordingNotifier) kinds() []entity.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.NotificationKind, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.Kind
	}
	return out
}
