package repository

import (
	"context"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository handles attempt data access. The unique index on
// (student_id, exam_id) is the hard backstop for the one-attempt rule;
// a second insert for the same pair surfaces as ErrDuplicate.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a finished attempt.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attempts (exam_id, exam_title, student_id, score, answers, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		a.Exam.ID, a.Exam.Title, a.StudentID, a.Score, a.Answers, a.AttemptedAt,
	).Scan(&a.ID)
	return translate(err)
}

// HasAttempt reports whether an attempt exists for a (student, exam) pair.
func (r *AttemptRepository) HasAttempt(ctx context.Context, studentID, examID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM attempts WHERE student_id = $1 AND exam_id = $2)`,
		studentID, examID,
	).Scan(&exists)
	return exists, err
}

// ListByStudent retrieves a student's attempts in ascending attempted_at
// order. The stored exam title expands the reference even after the
// exam itself is deleted.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, exam_title, student_id, score, answers, attempted_at
		 FROM attempts WHERE student_id = $1 ORDER BY attempted_at ASC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// List retrieves all attempts, newest first, optionally filtered by
// student. Pass uuid.Nil for no filter.
func (r *AttemptRepository) List(ctx context.Context, studentID uuid.UUID) ([]model.Attempt, error) {
	query := `SELECT id, exam_id, exam_title, student_id, score, answers, attempted_at
	          FROM attempts`
	var args []interface{}
	if studentID != uuid.Nil {
		query += ` WHERE student_id = $1`
		args = append(args, studentID)
	}
	query += ` ORDER BY attempted_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows pgx.Rows) ([]model.Attempt, error) {
	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.Exam.ID, &a.Exam.Title, &a.StudentID,
			&a.Score, &a.Answers, &a.AttemptedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
