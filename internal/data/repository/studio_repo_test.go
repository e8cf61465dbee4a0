package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newStudio() (*entity.Studio, []*entity.Equipment) {
	now := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	studio := &entity.Studio{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:       "Studio B",
		HourlyRate: 45,
		IsActive:   true,
	}
	equipment := []*entity.Equipment{
		{Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}, StudioID: studio.ID, Name: "Neumann U87", IsAvailable: true},
		{Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}, StudioID: studio.ID, Name: "Nord Stage 4", IsAvailable: true},
	}
	return studio, equipment
}

func TestStudioCreate_Commits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStudioRepository(mock, zaptest.NewLogger(t))
	studio, equipment := newStudio()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO studios").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO equipment").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO equipment").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), studio, equipment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudioCreate_EquipmentFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStudioRepository(mock, zaptest.NewLogger(t))
	studio, equipment := newStudio()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO studios").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO equipment").
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), studio, equipment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Neumann U87")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudioUpdate_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStudioRepository(mock, zaptest.NewLogger(t))
	studio, _ := newStudio()

	mock.ExpectExec("UPDATE studios").
		WithArgs(studio.ID, studio.Name, studio.Description, studio.Capacity, studio.HourlyRate, studio.IsActive, studio.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Update(context.Background(), studio)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
