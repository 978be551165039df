package studio

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrEntryNotFound = errors.New("schedule entry not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClass(ctx context.Context, name, description string, capacity int) (*Class, error) {
	query := `
		INSERT INTO classes (name, description, capacity)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, capacity, created_at
	`

	var class Class
	err := r.db.GetContext(ctx, &class, query, name, description, capacity)
	if err != nil {
		return nil, err
	}

	return &class, nil
}

func (r *repository) ListClasses(ctx context.Context) ([]Class, error) {
	query := `
		SELECT id, name, description, capacity, created_at
		FROM classes
		ORDER BY name ASC
	`

	var classes []Class
	err := r.db.SelectContext(ctx, &classes, query)
	if err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *repository) GetClassByID(ctx context.Context, id int) (*Class, error) {
	query := `
		SELECT id, name, description, capacity, created_at
		FROM classes
		WHERE id = $1
	`

	var class Class
	err := r.db.GetContext(ctx, &class, query, id)
	if err != nil {
		return nil, err
	}

	return &class, nil
}

func (r *repository) CreateEntry(ctx context.Context, classID int, startTime time.Time, instructorName string) (*ScheduleEntry, error) {
	query := `
		INSERT INTO schedule (class_id, start_time, instructor_name)
		VALUES ($1, $2, $3)
		RETURNING id, class_id, start_time, instructor_name, created_at
	`

	var entry ScheduleEntry
	err := r.db.GetContext(ctx, &entry, query, classID, startTime, instructorName)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *repository) GetEntryByID(ctx context.Context, id int) (*ScheduleEntry, error) {
	query := `
		SELECT id, class_id, start_time, instructor_name, created_at
		FROM schedule
		WHERE id = $1
	`

	var entry ScheduleEntry
	err := r.db.GetContext(ctx, &entry, query, id)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ListEntriesForDay returns entries whose start_time lies within [from, to],
// inclusive of both boundaries, joined with class details, ascending.
func (r *repository) ListEntriesForDay(ctx context.Context, from, to time.Time) ([]ScheduleEntryWithClass, error) {
	query := `
		SELECT
			s.id,
			s.class_id,
			s.start_time,
			s.instructor_name,
			s.created_at,
			c.name AS class_name,
			c.description AS class_description,
			c.capacity AS capacity
		FROM schedule s
		JOIN classes c ON s.class_id = c.id
		WHERE s.start_time >= $1 AND s.start_time <= $2
		ORDER BY s.start_time ASC
	`

	var entries []ScheduleEntryWithClass
	err := r.db.SelectContext(ctx, &entries, query, from, to)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *repository) ListUpcomingEntries(ctx context.Context, limit int) ([]ScheduleEntryWithClass, error) {
	query := `
		SELECT
			s.id,
			s.class_id,
			s.start_time,
			s.instructor_name,
			s.created_at,
			c.name AS class_name,
			c.description AS class_description,
			c.capacity AS capacity
		FROM schedule s
		JOIN classes c ON s.class_id = c.id
		WHERE s.start_time >= NOW()
		ORDER BY s.start_time ASC
		LIMIT $1
	`

	var entries []ScheduleEntryWithClass
	err := r.db.SelectContext(ctx, &entries, query, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *repository) DeleteEntry(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}
