// Package notify delivers booking notifications to clients through a
// pluggable sink chosen by configuration.
package notify

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DriverLog   = "log"
	DriverDB    = "db"
	DriverAsynq = "asynq"
	DriverAMQP  = "amqp"
)

// Notification is one message owed to a user about a booking.
type Notification struct {
	Kind      entity.NotificationKind `json:"kind"`
	UserID    uuid.UUID               `json:"user_id"`
	BookingID uuid.UUID               `json:"booking_id"`
	Message   string                  `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes each notification as a log line.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", DriverLog))}
}

func (n *LogNotifier) Notify(_ context.Context, msg Notification) error {
	n.log.Info("Notification",
		zap.String("kind", string(msg.Kind)),
		zap.String("user_id", msg.UserID.String()),
		zap.String("booking_id", msg.BookingID.String()),
		zap.String("message", msg.Message),
	)
	return nil
}

// StoreNotifier persists notifications for the user's inbox.
type StoreNotifier struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

func NewStoreNotifier(repo repository.NotificationRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo, now: time.Now}
}

func (n *StoreNotifier) Notify(ctx context.Context, msg Notification) error {
	record := &entity.Notification{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: n.now()},
		UserID:     msg.UserID,
		BookingID:  msg.BookingID,
		Kind:       msg.Kind,
		Message:    msg.Message,
	}
	if err := n.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("store notification %s: %w", msg.Kind, err)
	}
	return nil
}

// New builds the notifier for cfg.Driver. The returned close func releases
// broker connections and is never nil.
func New(cfg utils.NotifierConfig, store repository.NotificationRepository, log *zap.Logger) (Notifier, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", DriverLog:
		return NewLogNotifier(log), noop, nil
	case DriverDB:
		return NewStoreNotifier(store), noop, nil
	case DriverAsynq:
		n := NewAsynqNotifier(cfg, log)
		return n, n.Close, nil
	case DriverAMQP:
		n, err := DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown notifier driver %q", cfg.Driver)
	}
}
