package booking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// pqUniqueViolation is the Postgres class 23 code raised when the partial
// unique index on (user_id, schedule_id) rejects a second confirmed booking.
// The store constraint stays the source of truth for the no-double-booking
// invariant; this mapping just gives it a name the rest of the code can test.
const pqUniqueViolation = pq.ErrorCode("23505")

var (
	ErrDuplicateBooking                  = errors.New("member already has a confirmed booking for this class")
	ErrInsufficientCredits               = errors.New("no credits remaining")
	ErrBookingNotFoundOrAlreadyCancelled = errors.New("booking not found or already cancelled")
)

// isDuplicate reports whether err is the store's uniqueness-violation signal.
func isDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Reserve creates the confirmed booking row and debits one credit inside a
// single transaction, so the reservation and the debit succeed or fail
// together. The member row is locked first so concurrent attempts cannot
// drive the balance below zero.
func (r *repository) Reserve(ctx context.Context, userID, scheduleID int, debitCredit bool) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if debitCredit {
		var credits int
		err = tx.GetContext(ctx, &credits,
			`SELECT credits_remaining FROM users WHERE id = $1 FOR UPDATE`, userID)
		if err != nil {
			return nil, err
		}
		if credits <= 0 {
			return nil, ErrInsufficientCredits
		}
	}

	var booking Booking
	err = tx.GetContext(ctx, &booking, `
		INSERT INTO bookings (user_id, schedule_id, status)
		VALUES ($1, $2, 'confirmed')
		RETURNING id, user_id, schedule_id, status, created_at
	`, userID, scheduleID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}

	if debitCredit {
		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET credits_remaining = credits_remaining - 1, updated_at = NOW()
			WHERE id = $1 AND credits_remaining > 0
		`, userID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &booking, nil
}

// Cancel flips the booking to cancelled and refunds the credit in one
// transaction, mirroring Reserve.
func (r *repository) Cancel(ctx context.Context, bookingID int, refundCredit bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID int
	err = tx.GetContext(ctx, &userID, `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'confirmed'
		RETURNING user_id
	`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFoundOrAlreadyCancelled
		}
		return err
	}

	if refundCredit {
		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET credits_remaining = credits_remaining + 1, updated_at = NOW()
			WHERE id = $1
		`, userID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, user_id, schedule_id, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID, limit int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.schedule_id,
			b.status,
			b.created_at,
			s.start_time AS start_time,
			s.instructor_name AS instructor_name,
			c.name AS class_name
		FROM bookings b
		JOIN schedule s ON b.schedule_id = s.id
		JOIN classes c ON s.class_id = c.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// BookedScheduleIDs returns the subset of scheduleIDs the member holds a
// confirmed booking for, as a set.
func (r *repository) BookedScheduleIDs(ctx context.Context, userID int, scheduleIDs []int) (map[int]bool, error) {
	booked := make(map[int]bool, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return booked, nil
	}

	query := `
		SELECT schedule_id
		FROM bookings
		WHERE user_id = $1 AND status = 'confirmed' AND schedule_id = ANY($2)
	`

	var ids []int
	err := r.db.SelectContext(ctx, &ids, query, userID, pq.Array(scheduleIDs))
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		booked[id] = true
	}

	return booked, nil
}

func (r *repository) CountConfirmedForSchedule(ctx context.Context, scheduleID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE schedule_id = $1 AND status = 'confirmed'
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, scheduleID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) NextUpcoming(ctx context.Context, userID int) (*BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.schedule_id,
			b.status,
			b.created_at,
			s.start_time AS start_time,
			s.instructor_name AS instructor_name,
			c.name AS class_name
		FROM bookings b
		JOIN schedule s ON b.schedule_id = s.id
		JOIN classes c ON s.class_id = c.id
		WHERE b.user_id = $1 AND b.status = 'confirmed' AND s.start_time >= NOW()
		ORDER BY s.start_time ASC
		LIMIT 1
	`

	var booking BookingWithDetails
	err := r.db.GetContext(ctx, &booking, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &booking, nil
}

func (r *repository) CountCompleted(ctx context.Context, userID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE user_id = $1 AND status = 'completed'
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.schedule_id,
			b.status,
			b.created_at,
			s.start_time AS start_time,
			s.instructor_name AS instructor_name,
			c.name AS class_name,
			u.full_name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN schedule s ON b.schedule_id = s.id
		JOIN classes c ON s.class_id = c.id
		JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at DESC
		LIMIT $1
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, limit)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
