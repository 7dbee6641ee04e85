package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/examdesk/examdesk-backend/internal/config"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/examdesk/examdesk-backend/internal/session"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const examPaperTTL = 12 * time.Hour

// ExamValidationError reports answer-key problems in an exam definition,
// keyed by the offending question or option.
type ExamValidationError struct {
	Fields map[string]string
}

func (e *ExamValidationError) Error() string {
	return "invalid exam definition"
}

// ExamService handles exam authoring and the student-facing paper. It
// also implements session.Catalog so live sessions resolve exams through
// the same path as everything else.
type ExamService struct {
	exams *repository.ExamRepository
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams *repository.ExamRepository, rdb *redis.Client, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams: exams,
		rdb:   rdb,
		log:   log.With().Str("component", "exam_service").Logger(),
	}
}

// Create validates and stores a new exam, then warms the paper cache.
func (s *ExamService) Create(ctx context.Context, adminID uuid.UUID, req *model.CreateExamRequest) (*model.Exam, error) {
	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(req.Questions))
	for i, q := range req.Questions {
		options := make([]model.Option, len(q.Options))
		for j, o := range q.Options {
			options[j] = model.Option{ID: o.ID, Text: o.Text}
		}
		questions[i] = model.Question{
			ID:            q.ID,
			Text:          q.Text,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
		}
	}

	exam := &model.Exam{
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		Questions:       questions,
		CreatedBy:       adminID,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.cachePaper(ctx, exam)

	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("questions", len(exam.Questions)).
		Msg("Exam created")
	return exam, nil
}

// validateQuestions enforces the answer-key rules that binding tags
// cannot express: IDs unique within their scope and every correct answer
// pointing at an existing option.
func validateQuestions(questions []model.QuestionInput) error {
	fields := make(map[string]string)
	seenQuestions := make(map[string]struct{}, len(questions))

	for i, q := range questions {
		qPath := fmt.Sprintf("questions[%d]", i)
		if _, dup := seenQuestions[q.ID]; dup {
			fields[qPath+".id"] = "duplicate question id"
		}
		seenQuestions[q.ID] = struct{}{}

		seenOptions := make(map[string]struct{}, len(q.Options))
		for j, o := range q.Options {
			if _, dup := seenOptions[o.ID]; dup {
				fields[fmt.Sprintf("%s.options[%d].id", qPath, j)] = "duplicate option id"
			}
			seenOptions[o.ID] = struct{}{}
		}

		if _, ok := seenOptions[q.CorrectAnswer]; !ok {
			fields[qPath+".correctAnswer"] = "must match one of the option ids"
		}
	}

	if len(fields) > 0 {
		return &ExamValidationError{Fields: fields}
	}
	return nil
}

// List retrieves all exams with their questions. Admin only; student
// surfaces go through Paper.
func (s *ExamService) List(ctx context.Context) ([]model.Exam, error) {
	return s.exams.List(ctx)
}

// GetExam implements session.Catalog.
func (s *ExamService) GetExam(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, session.ErrExamNotFound
		}
		return nil, err
	}
	return exam, nil
}

// Paper returns the answer-stripped exam payload, from cache when warm.
func (s *ExamService) Paper(ctx context.Context, id uuid.UUID) (*model.ExamPaper, error) {
	key := config.CacheKey.ExamPaperKey(id.String())

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		paper := &model.ExamPaper{}
		if err := json.Unmarshal([]byte(cached), paper); err == nil {
			return paper, nil
		}
		// Corrupt cache entry; fall through to the database and rewrite it.
		s.log.Warn().Str("exam_id", id.String()).Msg("Dropping unreadable exam paper cache entry")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Exam paper cache read failed")
	}

	exam, err := s.GetExam(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cachePaper(ctx, exam)
	return exam.Paper(), nil
}

// Delete removes an exam and its cached paper.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, config.CacheKey.ExamPaperKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", id.String()).Msg("Failed to drop exam paper cache")
	}
	s.log.Info().Str("exam_id", id.String()).Msg("Exam deleted")
	return nil
}

// cachePaper writes the answer-stripped paper to Redis, best effort.
func (s *ExamService) cachePaper(ctx context.Context, exam *model.Exam) {
	payload, err := json.Marshal(exam.Paper())
	if err != nil {
		return
	}
	key := config.CacheKey.ExamPaperKey(exam.ID.String())
	if err := s.rdb.Set(ctx, key, payload, examPaperTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", exam.ID.String()).Msg("Failed to cache exam paper")
	}
}
