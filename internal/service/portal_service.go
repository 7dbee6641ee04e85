package service

import (
	"context"
	"errors"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/examdesk/examdesk-backend/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// attemptStore adapts AttemptRepository to session.AttemptStore,
// translating the unique-index violation into the session-level error.
type attemptStore struct {
	repo *repository.AttemptRepository
}

func (s attemptStore) CreateAttempt(ctx context.Context, a *model.Attempt) error {
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return session.ErrAlreadyAttempted
		}
		return err
	}
	return nil
}

func (s attemptStore) HasAttempt(ctx context.Context, studentID, examID uuid.UUID) (bool, error) {
	return s.repo.HasAttempt(ctx, studentID, examID)
}

// PortalService is the student-facing surface: the dashboard, live exam
// sessions, and attempt history.
type PortalService struct {
	exams    *ExamService
	attempts *repository.AttemptRepository
	sessions *session.Manager
	log      zerolog.Logger
}

// NewPortalService creates the portal service and the session manager it
// drives. Call Close on shutdown to stop live session clocks.
func NewPortalService(exams *ExamService, attempts *repository.AttemptRepository, log zerolog.Logger, opts session.Options) *PortalService {
	return &PortalService{
		exams:    exams,
		attempts: attempts,
		sessions: session.NewManager(exams, attemptStore{repo: attempts}, log, opts),
		log:      log.With().Str("component", "portal_service").Logger(),
	}
}

// Dashboard reconciles the exam catalog against the student's attempts.
func (s *PortalService) Dashboard(ctx context.Context, studentID uuid.UUID) ([]session.ExamStatus, error) {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return session.DeriveStatuses(exams, attempts), nil
}

// StartExam begins (or rejoins) a live session for the student.
func (s *PortalService) StartExam(ctx context.Context, studentID, examID uuid.UUID) (*session.Session, error) {
	return s.sessions.Start(ctx, studentID, examID)
}

// Session returns the student's live session for an exam, if any.
func (s *PortalService) Session(studentID, examID uuid.UUID) (*session.Session, bool) {
	return s.sessions.Get(studentID, examID)
}

// Paper returns the answer-stripped exam payload.
func (s *PortalService) Paper(ctx context.Context, examID uuid.UUID) (*model.ExamPaper, error) {
	return s.exams.Paper(ctx, examID)
}

// Attempts returns the student's attempt history, earliest first.
func (s *PortalService) Attempts(ctx context.Context, studentID uuid.UUID) ([]model.Attempt, error) {
	return s.attempts.ListByStudent(ctx, studentID)
}

// ListAttempts returns attempts across students for the admin view,
// optionally filtered to one student (uuid.Nil for all).
func (s *PortalService) ListAttempts(ctx context.Context, studentID uuid.UUID) ([]model.Attempt, error) {
	return s.attempts.List(ctx, studentID)
}

// Close stops all live session clocks.
func (s *PortalService) Close() {
	s.sessions.Close()
}
