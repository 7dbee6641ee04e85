package session

import (
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
)

// ExamStatus is one dashboard row: an exam plus whether the current
// student has already attempted it. Attempted exams carry the attempt so
// the dashboard can show the score and block a re-attempt.
type ExamStatus struct {
	Exam      model.Exam     `json:"exam"`
	Attempted bool           `json:"attempted"`
	Attempt   *model.Attempt `json:"attempt,omitempty"`
}

// DeriveStatuses reconciles the exam catalog against a student's attempts.
// Attempt exam references may be bare IDs or expanded objects; both are
// normalized to the bare ID before comparison. When more than one attempt
// references the same exam, the earliest one is authoritative: attempts
// are expected in ascending attemptedAt order, and the first match wins.
func DeriveStatuses(exams []model.Exam, attempts []model.Attempt) []ExamStatus {
	byExam := make(map[uuid.UUID]*model.Attempt, len(attempts))
	for i := range attempts {
		id := attempts[i].Exam.ID
		if _, seen := byExam[id]; !seen {
			byExam[id] = &attempts[i]
		}
	}

	statuses := make([]ExamStatus, len(exams))
	for i, exam := range exams {
		statuses[i] = ExamStatus{Exam: exam}
		if attempt, ok := byExam[exam.ID]; ok {
			statuses[i].Attempted = true
			statuses[i].Attempt = attempt
		}
	}
	return statuses
}
