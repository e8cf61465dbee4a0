package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sample() Notification {
	return Notification{
		Kind:      entity.NotificationBookingConfirmed,
		UserID:    uuid.New(),
		BookingID: uuid.New(),
		Message:   "Your booking for Sun, 18 Oct 2026 14:00 UTC has been confirmed.",
	}
}

type fakeNotificationRepo struct {
	created []*entity.Notification
	err     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) FindByUserID(context.Context, uuid.UUID) ([]*entity.Notification, error) {
	return f.created, nil
}

func TestStoreNotifier(t *testing.T) {
	repo := &fakeNotificationRepo{}
	msg := sample()

	require.NoError(t, NewStoreNotifier(repo).Notify(context.Background(), msg))
	require.Len(t, repo.created, 1)

	got := repo.created[0]
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, msg.UserID, got.UserID)
	assert.Equal(t, msg.BookingID, got.BookingID)
	assert.Equal(t, msg.Kind, got.Kind)
	assert.False(t, got.IsRead)

	repo.err = errors.New("db down")
	assert.Error(t, NewStoreNotifier(repo).Notify(context.Background(), msg))
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestAsynqNotifier_EnqueuesDeliveryTask(t *testing.T) {
	q := &fakeEnqueuer{}
	n := &AsynqNotifier{client: q, queue: "notifications", log: zaptest.NewLogger(t)}
	msg := sample()

	require.NoError(t, n.Notify(context.Background(), msg))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeDeliver, q.tasks[0].Type())

	var decoded Notification
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &decoded))
	assert.Equal(t, msg, decoded)

	q.err = errors.New("redis unreachable")
	assert.Error(t, n.Notify(context.Background(), msg))
}

func TestDeliveryHandler(t *testing.T) {
	repo := &fakeNotificationRepo{}
	handler := NewDeliveryHandler(NewStoreNotifier(repo), zaptest.NewLogger(t))

	task, err := NewDeliveryTask(sample())
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	assert.Len(t, repo.created, 1)

	err = handler(context.Background(), asynq.NewTask(TypeDeliver, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPNotifier_Publishes(t *testing.T) {
	ch := &fakeChannel{}
	n := newAMQPNotifier(ch, "studio.events", zaptest.NewLogger(t))
	msg := sample()

	require.NoError(t, n.Notify(context.Background(), msg))
	assert.Equal(t, "studio.events", ch.exchange)
	assert.Equal(t, "booking.booking_confirmed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var decoded Notification
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, msg, decoded)

	ch.err = errors.New("channel closed")
	assert.Error(t, n.Notify(context.Background(), msg))
	assert.NoError(t, n.Close())
}

func TestNew(t *testing.T) {
	log := zaptest.NewLogger(t)
	repo := &fakeNotificationRepo{}

	n, closeFn, err := New(utils.NotifierConfig{Driver: DriverLog}, repo, log)
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)
	assert.NoError(t, closeFn())
	assert.NoError(t, n.Notify(context.Background(), sample()))

	n, _, err = New(utils.NotifierConfig{Driver: DriverDB}, repo, log)
	require.NoError(t, err)
	assert.IsType(t, &StoreNotifier{}, n)

	_, _, err = New(utils.NotifierConfig{Driver: "pigeon"}, repo, log)
	assert.Error(t, err)
}
