package repository

import (
	"context"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EquipmentRepository interface {
	FindByStudioID(ctx context.Context, studioID uuid.UUID) ([]*entity.Equipment, error)
	// IsAvailable reports whether equipmentID belongs to studioID and is bookable.
	IsAvailable(ctx context.Context, studioID, equipmentID uuid.UUID) (bool, error)
}

type equipmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEquipmentRepository(db database.PgxIface, log *zap.Logger) EquipmentRepository {
	return &equipmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "equipment")),
	}
}

func (r *equipmentRepository) FindByStudioID(ctx context.Context, studioID uuid.UUID) ([]*entity.Equipment, error) {
	query := `
		SELECT id, studio_id, name, description, hourly_rate, is_available, created_at, updated_at
		FROM equipment
		WHERE studio_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, studioID)
	if err != nil {
		r.log.Error("Failed to find equipment by studio",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
		)
		return nil, fmt.Errorf("find equipment for studio %s: %w", studioID.String(), err)
	}
	defer rows.Close()

	var items []*entity.Equipment
	for rows.Next() {
		var e entity.Equipment
		err := rows.Scan(
			&e.ID,
			&e.StudioID,
			&e.Name,
			&e.Description,
			&e.HourlyRate,
			&e.IsAvailable,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan equipment row: %w", err)
		}
		items = append(items, &e)
	}

	return items, rows.Err()
}

func (r *equipmentRepository) IsAvailable(ctx context.Context, studioID, equipmentID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM equipment
			WHERE id = $1 AND studio_id = $2 AND is_available = true
		)
	`

	var ok bool
	if err := r.db.QueryRow(ctx, query, equipmentID, studioID).Scan(&ok); err != nil {
		r.log.Error("Failed to check equipment availability",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
			zap.String("equipment_id", equipmentID.String()),
		)
		return false, fmt.Errorf("check equipment %s: %w", equipmentID.String(), err)
	}

	return ok, nil
}
