package repository

import (
	"context"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TimetableRepository handles timetable data access.
type TimetableRepository struct {
	pool *pgxpool.Pool
}

// NewTimetableRepository creates a new TimetableRepository.
func NewTimetableRepository(pool *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{pool: pool}
}

// Create inserts a new timetable entry.
func (r *TimetableRepository) Create(ctx context.Context, e *model.TimetableEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO timetable_entries (subject, date, start_time, end_time, venue)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.Subject, e.Date, e.StartTime, e.EndTime, e.Venue,
	).Scan(&e.ID, &e.CreatedAt)
}

// List retrieves all timetable entries in chronological order. Times are
// HH:MM strings, so lexical order within a date is chronological order.
func (r *TimetableRepository) List(ctx context.Context) ([]model.TimetableEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject, date, start_time, end_time, venue, created_at
		 FROM timetable_entries ORDER BY date ASC, start_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TimetableEntry
	for rows.Next() {
		var e model.TimetableEntry
		if err := rows.Scan(&e.ID, &e.Subject, &e.Date, &e.StartTime, &e.EndTime,
			&e.Venue, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a timetable entry.
func (r *TimetableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM timetable_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
