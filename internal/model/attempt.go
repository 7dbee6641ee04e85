package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExamRef references an exam from an attempt. On the wire it appears
// either as a bare ID string ("3f1c...") or, when the store expands the
// reference, as an object {"id": ..., "title": ...}. Both shapes decode
// into the same value; encoding emits the expanded form when a title is
// present and the bare ID otherwise.
type ExamRef struct {
	ID    uuid.UUID
	Title string
}

type examRefObject struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r ExamRef) MarshalJSON() ([]byte, error) {
	if r.Title == "" {
		return json.Marshal(r.ID.String())
	}
	return json.Marshal(examRefObject{ID: r.ID, Title: r.Title})
}

// UnmarshalJSON implements json.Unmarshaler, accepting both shapes.
func (r *ExamRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("parse exam reference %q: %w", id, err)
		}
		*r = ExamRef{ID: parsed}
		return nil
	}

	var obj examRefObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("parse exam reference: %w", err)
	}
	*r = ExamRef{ID: obj.ID, Title: obj.Title}
	return nil
}

// Attempt is one student's finished take of one exam. Created exactly once
// per (student, exam) at submission time and never mutated afterwards.
// The score is computed once, at submission, and trusted thereafter.
// Field names follow the contract the front end already consumes.
type Attempt struct {
	ID          uuid.UUID         `json:"id"`
	Exam        ExamRef           `json:"examId"`
	StudentID   uuid.UUID         `json:"studentId"`
	Score       int               `json:"score"`
	Answers     map[string]string `json:"answers"`
	AttemptedAt time.Time         `json:"attemptedAt"`
}
