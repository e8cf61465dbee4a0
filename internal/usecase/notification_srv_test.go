package usecase

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeNotificationRepo struct {
	items []*entity.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotificationRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func TestListForUser(t *testing.T) {
	client := uuid.New()
	bookingID := uuid.New()
	store := &fakeNotificationRepo{}
	require.NoError(t, store.Create(context.Background(), &entity.Notification{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     client,
		BookingID:  bookingID,
		Kind:       entity.NotificationBookingConfirmation,
		Message:    "Your booking STU-20261020-abcdefg has been received.",
	}))
	require.NoError(t, store.Create(context.Background(), &entity.Notification{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     uuid.New(),
		BookingID:  uuid.New(),
		Kind:       entity.NotificationStatusUpdate,
	}))

	svc := NewNotificationService(&repository.Repository{Notification: store}, zaptest.NewLogger(t))

	items, err := svc.ListForUser(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, bookingID.String(), items[0].BookingID)
	assert.Equal(t, entity.NotificationBookingConfirmation, items[0].Kind)

	items, err = svc.ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, items)
}
