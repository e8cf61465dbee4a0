package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(r chi.Router, notificationHandler *adaptor.NotificationHandler, repo *repository.Repository, log *zap.Logger) {
	r.With(middleware.AuthSession(repo.Session, repo.User, log)).Get("/api/notifications", notificationHandler.ListNotifications)
}
