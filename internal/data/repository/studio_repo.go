package repository

import (
	"context"
	"errors"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StudioRepository interface {
	// Create inserts the studio and its equipment in one transaction.
	Create(ctx context.Context, studio *entity.Studio, equipment []*entity.Equipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Studio, error)
	FindAllActive(ctx context.Context) ([]*entity.Studio, error)
	Update(ctx context.Context, studio *entity.Studio) error
}

type studioRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStudioRepository(db database.PgxIface, log *zap.Logger) StudioRepository {
	return &studioRepository{
		db:  db,
		log: log.With(zap.String("repository", "studio")),
	}
}

const studioColumns = `id, name, description, capacity, hourly_rate, is_active, created_at, updated_at`

func (r *studioRepository) Create(ctx context.Context, studio *entity.Studio, equipment []*entity.Equipment) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin studio tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO studios (`+studioColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		studio.ID,
		studio.Name,
		studio.Description,
		studio.Capacity,
		studio.HourlyRate,
		studio.IsActive,
		studio.CreatedAt,
		studio.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create studio", zap.Error(err), zap.String("name", studio.Name))
		return fmt.Errorf("create studio %s: %w", studio.Name, err)
	}

	for _, e := range equipment {
		_, err = tx.Exec(ctx, `
			INSERT INTO equipment (id, studio_id, name, description, hourly_rate, is_available, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			e.ID,
			studio.ID,
			e.Name,
			e.Description,
			e.HourlyRate,
			e.IsAvailable,
			e.CreatedAt,
			e.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create studio equipment",
				zap.Error(err),
				zap.String("studio_id", studio.ID.String()),
				zap.String("equipment", e.Name),
			)
			return fmt.Errorf("create equipment %s: %w", e.Name, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit studio tx: %w", err)
	}
	return nil
}

func (r *studioRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Studio, error) {
	query := `SELECT ` + studioColumns + ` FROM studios WHERE id = $1`

	studio, err := scanStudio(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find studio by ID",
			zap.Error(err),
			zap.String("studio_id", id.String()),
		)
		return nil, fmt.Errorf("find studio by ID %s: %w", id.String(), err)
	}

	return studio, nil
}

func (r *studioRepository) FindAllActive(ctx context.Context) ([]*entity.Studio, error) {
	query := `SELECT ` + studioColumns + ` FROM studios WHERE is_active = true ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list studios", zap.Error(err))
		return nil, fmt.Errorf("list studios: %w", err)
	}
	defer rows.Close()

	var studios []*entity.Studio
	for rows.Next() {
		studio, err := scanStudio(rows)
		if err != nil {
			r.log.Error("Failed to scan studio row", zap.Error(err))
			return nil, fmt.Errorf("scan studio row: %w", err)
		}
		studios = append(studios, studio)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate studio rows: %w", err)
	}

	return studios, nil
}

func (r *studioRepository) Update(ctx context.Context, studio *entity.Studio) error {
	query := `
		UPDATE studios
		SET name = $2, description = $3, capacity = $4, hourly_rate = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		studio.ID,
		studio.Name,
		studio.Description,
		studio.Capacity,
		studio.HourlyRate,
		studio.IsActive,
		studio.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update studio", zap.Error(err), zap.String("studio_id", studio.ID.String()))
		return fmt.Errorf("update studio %s: %w", studio.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update studio %s: %w", studio.ID.String(), pgx.ErrNoRows)
	}
	return nil
}

func scanStudio(row pgx.Row) (*entity.Studio, error) {
	var s entity.Studio
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Capacity,
		&s.HourlyRate,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
