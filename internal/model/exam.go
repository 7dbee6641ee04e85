package model

import (
	"time"

	"github.com/google/uuid"
)

// Option is a single answer choice within a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice question. Question and option IDs are
// free-form strings owned by the exam author ("q1", "a", ...), unique
// within their parent. CorrectAnswer must equal one of the option IDs.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Exam represents an exam definition. Exams are immutable once created;
// the only admin mutations are create and delete.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	Questions       []Question `json:"questions"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateExamRequest is the payload for creating a new exam. Structural
// rules live in the binding tags; the cross-field answer-key rules are
// enforced by ExamService.Create.
type CreateExamRequest struct {
	Title           string          `json:"title" binding:"required,min=3,max=255"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1,max=480"`
	Questions       []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// QuestionInput is a question as submitted by the exam author.
type QuestionInput struct {
	ID            string        `json:"id" binding:"required,max=50"`
	Text          string        `json:"text" binding:"required,min=1,max=2000"`
	Options       []OptionInput `json:"options" binding:"required,min=2,dive"`
	CorrectAnswer string        `json:"correctAnswer" binding:"required,max=50"`
}

// OptionInput is an option as submitted by the exam author.
type OptionInput struct {
	ID   string `json:"id" binding:"required,max=50"`
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// QuestionForStudent is a question with the correct answer stripped.
type QuestionForStudent struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// ExamPaper is the student-facing exam payload (no correct answers).
// It is what gets cached in Redis and served during a session.
type ExamPaper struct {
	ExamID          uuid.UUID            `json:"exam_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration_minutes"`
	Questions       []QuestionForStudent `json:"questions"`
}

// Paper builds the answer-stripped payload for an exam.
func (e *Exam) Paper() *ExamPaper {
	questions := make([]QuestionForStudent, len(e.Questions))
	for i, q := range e.Questions {
		questions[i] = QuestionForStudent{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
		}
	}
	return &ExamPaper{
		ExamID:          e.ID,
		Title:           e.Title,
		DurationMinutes: e.DurationMinutes,
		Questions:       questions,
	}
}
