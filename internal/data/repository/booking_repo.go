package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// OverlapError is returned by CreateWithEquipment when the store already holds
// an active booking intersecting the new window.
type OverlapError struct {
	StudioID   uuid.UUID
	BookingIDs []uuid.UUID
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("studio %s already booked by %d active booking(s)", e.StudioID, len(e.BookingIDs))
}

// ErrBookingStale is returned by Update when the row is gone or its status
// no longer matches the status the caller read.
var ErrBookingStale = errors.New("booking not found or changed concurrently")

// BookingFilter narrows FindAll. Zero fields are ignored.
type BookingFilter struct {
	Status   *entity.BookingStatus
	StudioID *uuid.UUID
	ClientID *uuid.UUID
	StaffID  *uuid.UUID
	From     *time.Time
	To       *time.Time
}

type BookingRepository interface {
	// CreateWithEquipment inserts the booking and its equipment lines in one
	// transaction serialised per studio by an advisory lock.
	CreateWithEquipment(ctx context.Context, booking *entity.Booking, items []*entity.BookingEquipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	FindActive(ctx context.Context) ([]*entity.Booking, error)
	FindActiveByStudio(ctx context.Context, studioID uuid.UUID) ([]*entity.Booking, error)
	FindEquipment(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingEquipment, error)
	// Update writes the booking only while its stored status still equals prev.
	Update(ctx context.Context, booking *entity.Booking, prev entity.BookingStatus) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, reference, studio_id, client_id, staff_id, start_at, end_at, status, notes, created_at, updated_at`

func (r *bookingRepository) CreateWithEquipment(ctx context.Context, booking *entity.Booking, items []*entity.BookingEquipment) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Held until commit/rollback; serialises creates for the studio across instances.
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.StudioID.String()); err != nil {
		return fmt.Errorf("lock studio %s: %w", booking.StudioID.String(), err)
	}

	overlapping, err := r.overlapping(ctx, tx, booking)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		err = &OverlapError{StudioID: booking.StudioID, BookingIDs: overlapping}
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		booking.ID,
		booking.Reference,
		booking.StudioID,
		booking.ClientID,
		booking.StaffID,
		booking.StartAt,
		booking.EndAt,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("studio_id", booking.StudioID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO booking_equipment (id, booking_id, equipment_id, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.BookingID, item.EquipmentID, item.Quantity, item.CreatedAt)
		if err != nil {
			r.log.Error("Failed to attach equipment",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
				zap.String("equipment_id", item.EquipmentID.String()),
			)
			return fmt.Errorf("attach equipment %s to booking %s: %w", item.EquipmentID.String(), booking.ID.String(), err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) overlapping(ctx context.Context, tx pgx.Tx, booking *entity.Booking) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `
		SELECT id FROM bookings
		WHERE studio_id = $1
		  AND status <> 'cancelled'
		  AND start_at < $2
		  AND end_at > $3
		ORDER BY start_at
	`, booking.StudioID, booking.EndAt, booking.StartAt)
	if err != nil {
		return nil, fmt.Errorf("check overlap for studio %s: %w", booking.StudioID.String(), err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan overlapping booking: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	where, args := buildBookingFilter(filter)
	query := `SELECT ` + bookingColumns + ` FROM bookings` + where + ` ORDER BY start_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) FindActive(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status <> 'cancelled' ORDER BY studio_id, start_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to load active bookings", zap.Error(err))
		return nil, fmt.Errorf("load active bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) FindActiveByStudio(ctx context.Context, studioID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE studio_id = $1 AND status <> 'cancelled' ORDER BY start_at`

	rows, err := r.db.Query(ctx, query, studioID)
	if err != nil {
		r.log.Error("Failed to load active bookings of studio",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
		)
		return nil, fmt.Errorf("load active bookings of studio %s: %w", studioID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) FindEquipment(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingEquipment, error) {
	query := `
		SELECT id, booking_id, equipment_id, quantity, created_at
		FROM booking_equipment
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking equipment",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find equipment for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var items []*entity.BookingEquipment
	for rows.Next() {
		var item entity.BookingEquipment
		if err := rows.Scan(&item.ID, &item.BookingID, &item.EquipmentID, &item.Quantity, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking equipment row: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking, prev entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET staff_id = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $1 AND status = $6
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.StaffID,
		booking.Status,
		booking.Notes,
		booking.UpdatedAt,
		prev,
	)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s from %s: %w", booking.ID.String(), prev, ErrBookingStale)
	}

	return nil
}

// buildBookingFilter renders the WHERE clause and its positional args.
func buildBookingFilter(f BookingFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.StudioID != nil {
		add("studio_id = $%d", *f.StudioID)
	}
	if f.ClientID != nil {
		add("client_id = $%d", *f.ClientID)
	}
	if f.StaffID != nil {
		add("staff_id = $%d", *f.StaffID)
	}
	if f.From != nil {
		add("start_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("start_at <= $%d", *f.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.StudioID,
		&b.ClientID,
		&b.StaffID,
		&b.StartAt,
		&b.EndAt,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
