package usecase

import (
	"context"

	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]response.NotificationResponse, error)
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
	}
}

// ListForUser returns the notifications stored for a user, newest first.
func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]response.NotificationResponse, error) {
	items, err := s.repo.Notification.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]response.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, response.NotificationToResponse(n))
	}
	return out, nil
}
