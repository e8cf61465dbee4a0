package usecase

import (
	"studio-booking/internal/data/repository"
	"studio-booking/internal/notify"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Studio       StudioService
	Booking      BookingService
	Notification NotificationService
}

func NewService(repo *repository.Repository, notifier notify.Notifier, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, config.Session, log),
		Studio:       NewStudioService(repo, log),
		Booking:      NewBookingService(repo, notifier, config.Scheduling, log),
		Notification: NewNotificationService(repo, log),
	}
}
