package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"studio-booking/pkg/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeDeliver = "notification:deliver"

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier queues notifications on redis; a Worker delivers them.
type AsynqNotifier struct {
	client enqueuer
	closer func() error
	queue  string
	log    *zap.Logger
}

func NewAsynqNotifier(cfg utils.NotifierConfig, log *zap.Logger) *AsynqNotifier {
	client := asynq.NewClient(redisOpt(cfg))
	return &AsynqNotifier{
		client: client,
		closer: client.Close,
		queue:  cfg.Queue,
		log:    log.With(zap.String("notifier", DriverAsynq)),
	}
}

func NewDeliveryTask(n Notification) (*asynq.Task, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}
	return asynq.NewTask(TypeDeliver, b), nil
}

func (n *AsynqNotifier) Notify(ctx context.Context, msg Notification) error {
	task, err := NewDeliveryTask(msg)
	if err != nil {
		return err
	}

	info, err := n.client.EnqueueContext(ctx, task, asynq.Queue(n.queue), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue notification %s: %w", msg.Kind, err)
	}

	n.log.Debug("Notification queued",
		zap.String("task_id", info.ID),
		zap.String("kind", string(msg.Kind)),
		zap.String("booking_id", msg.BookingID.String()),
	)
	return nil
}

func (n *AsynqNotifier) Close() error {
	if n.closer == nil {
		return nil
	}
	return n.closer()
}

// NewDeliveryHandler decodes queued notifications and hands them to target.
func NewDeliveryHandler(target Notifier, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var msg Notification
		if err := json.Unmarshal(task.Payload(), &msg); err != nil {
			log.Error("Invalid notification payload", zap.Error(err))
			return fmt.Errorf("decode notification: %w: %w", err, asynq.SkipRetry)
		}

		if err := target.Notify(ctx, msg); err != nil {
			log.Warn("Notification delivery failed",
				zap.Error(err),
				zap.String("kind", string(msg.Kind)),
				zap.String("booking_id", msg.BookingID.String()),
			)
			return err
		}
		return nil
	}
}

// Worker consumes the notification queue.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(cfg utils.NotifierConfig, target Notifier, log *zap.Logger) *Worker {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{cfg.Queue: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDeliver, NewDeliveryHandler(target, log.With(zap.String("worker", "notification"))))

	return &Worker{srv: srv, mux: mux}
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func redisOpt(cfg utils.NotifierConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}
