package session

import (
	"context"
	"errors"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
)

// Domain errors surfaced by the session engine.
var (
	// ErrExamNotFound aborts session start; the caller redirects away.
	ErrExamNotFound = errors.New("exam not found")
	// ErrAlreadyAttempted means an attempt already exists for this
	// (student, exam) pair. Non-fatal; the dashboard shows the result.
	ErrAlreadyAttempted = errors.New("exam already attempted")
	// ErrAlreadySubmitted means the session reached its terminal state.
	ErrAlreadySubmitted = errors.New("session already submitted")
	// ErrSubmitInFlight means a submission is currently being persisted.
	ErrSubmitInFlight = errors.New("submission in progress")
	// ErrNotInProgress rejects operations outside the InProgress state.
	ErrNotInProgress = errors.New("session not in progress")
	// ErrUnknownQuestion rejects answers for questions outside the exam.
	ErrUnknownQuestion = errors.New("question not part of this exam")
)

// Catalog supplies exam definitions. The session never mutates exams.
type Catalog interface {
	GetExam(ctx context.Context, id uuid.UUID) (*model.Exam, error)
}

// AttemptStore persists finished attempts. CreateAttempt must be treated
// as at-most-one logical write per session; it returns ErrAlreadyAttempted
// when the (student, exam) pair already has an attempt.
type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt *model.Attempt) error
	HasAttempt(ctx context.Context, studentID, examID uuid.UUID) (bool, error)
}
