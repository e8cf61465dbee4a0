package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStudio(r chi.Router, studioHandler *adaptor.StudioHandler, repo *repository.Repository, log *zap.Logger) {
	r.Route("/api/studios", func(r chi.Router) {
		r.Get("/", studioHandler.ListStudios)
		r.Get("/{id}", studioHandler.GetStudio)
		r.Get("/{id}/availability", studioHandler.Availability)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthSession(repo.Session, repo.User, log))
			r.Use(middleware.RequireRole(log, entity.RoleAdmin))

			r.Post("/", studioHandler.CreateStudio)
			r.Put("/{id}", studioHandler.UpdateStudio)
		})
	})
}
