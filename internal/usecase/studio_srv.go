package usecase

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/internal/scheduling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StudioService interface {
	ListStudios(ctx context.Context) ([]response.StudioResponse, error)
	GetStudio(ctx context.Context, id uuid.UUID) (*response.StudioResponse, error)
	CreateStudio(ctx context.Context, req *request.CreateStudioRequest) (*response.StudioResponse, error)
	UpdateStudio(ctx context.Context, id uuid.UUID, req *request.UpdateStudioRequest) (*response.StudioResponse, error)
}

type studioService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewStudioService(repo *repository.Repository, log *zap.Logger) StudioService {
	return &studioService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "studio")),
	}
}

// ListStudios returns the active studios with their equipment.
func (s *studioService) ListStudios(ctx context.Context) ([]response.StudioResponse, error) {
	studios, err := s.repo.Studio.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]response.StudioResponse, 0, len(studios))
	for _, studio := range studios {
		equipment, err := s.repo.Equipment.FindByStudioID(ctx, studio.ID)
		if err != nil {
			return nil, fmt.Errorf("load equipment for studio %s: %w", studio.ID.String(), err)
		}
		out = append(out, response.StudioToResponse(studio, equipment))
	}

	return out, nil
}

// GetStudio returns one studio, active or not, with its equipment.
func (s *studioService) GetStudio(ctx context.Context, id uuid.UUID) (*response.StudioResponse, error) {
	studio, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withEquipment(ctx, studio)
}

func (s *studioService) CreateStudio(ctx context.Context, req *request.CreateStudioRequest) (*response.StudioResponse, error) {
	now := s.now()
	studio := &entity.Studio{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		HourlyRate:  req.HourlyRate,
		IsActive:    true,
	}

	equipment := make([]*entity.Equipment, 0, len(req.Equipment))
	for _, item := range req.Equipment {
		equipment = append(equipment, &entity.Equipment{
			Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			StudioID:    studio.ID,
			Name:        item.Name,
			Description: item.Description,
			HourlyRate:  item.HourlyRate,
			IsAvailable: true,
		})
	}

	if err := s.repo.Studio.Create(ctx, studio, equipment); err != nil {
		return nil, err
	}

	s.log.Info("Studio created",
		zap.String("studio_id", studio.ID.String()),
		zap.String("name", studio.Name),
		zap.Int("equipment", len(equipment)),
	)

	resp := response.StudioToResponse(studio, equipment)
	return &resp, nil
}

// UpdateStudio applies the fields present in req. Deactivating a studio stops
// new bookings; existing ones are left to staff.
func (s *studioService) UpdateStudio(ctx context.Context, id uuid.UUID, req *request.UpdateStudioRequest) (*response.StudioResponse, error) {
	studio, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		studio.Name = *req.Name
	}
	if req.Description != nil {
		studio.Description = req.Description
	}
	if req.Capacity != nil {
		studio.Capacity = req.Capacity
	}
	if req.HourlyRate != nil {
		studio.HourlyRate = *req.HourlyRate
	}
	if req.IsActive != nil {
		studio.IsActive = *req.IsActive
	}
	studio.UpdatedAt = s.now()

	if err := s.repo.Studio.Update(ctx, studio); err != nil {
		return nil, err
	}

	s.log.Info("Studio updated",
		zap.String("studio_id", studio.ID.String()),
		zap.Bool("active", studio.IsActive),
	)
	return s.withEquipment(ctx, studio)
}

func (s *studioService) find(ctx context.Context, id uuid.UUID) (*entity.Studio, error) {
	studio, err := s.repo.Studio.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load studio %s: %w", id.String(), err)
	}
	if studio == nil {
		return nil, &scheduling.NotFoundError{Resource: "studio", ID: id.String()}
	}
	return studio, nil
}

func (s *studioService) withEquipment(ctx context.Context, studio *entity.Studio) (*response.StudioResponse, error) {
	equipment, err := s.repo.Equipment.FindByStudioID(ctx, studio.ID)
	if err != nil {
		return nil, fmt.Errorf("load equipment for studio %s: %w", studio.ID.String(), err)
	}
	resp := response.StudioToResponse(studio, equipment)
	return &resp, nil
}
