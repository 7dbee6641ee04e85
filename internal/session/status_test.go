package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
)

func TestDeriveStatuses(t *testing.T) {
	examA := model.Exam{ID: uuid.New(), Title: "Algebra"}
	examB := model.Exam{ID: uuid.New(), Title: "Biology"}
	examC := model.Exam{ID: uuid.New(), Title: "Chemistry"}

	// One attempt carries only the bare exam ID, the other an expanded
	// reference; both must resolve against the catalog.
	bareRef := model.Attempt{
		ID:    uuid.New(),
		Exam:  model.ExamRef{ID: examA.ID},
		Score: 2,
	}
	expandedRef := model.Attempt{
		ID:    uuid.New(),
		Exam:  model.ExamRef{ID: examB.ID, Title: examB.Title},
		Score: 5,
	}

	statuses := DeriveStatuses(
		[]model.Exam{examA, examB, examC},
		[]model.Attempt{bareRef, expandedRef},
	)

	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Attempted || statuses[0].Attempt.Score != 2 {
		t.Errorf("bare-ID attempt not matched to exam: %+v", statuses[0])
	}
	if !statuses[1].Attempted || statuses[1].Attempt.Score != 5 {
		t.Errorf("expanded attempt not matched to exam: %+v", statuses[1])
	}
	if statuses[2].Attempted {
		t.Errorf("exam without attempt flagged as attempted")
	}
}

func TestDeriveStatusesEarliestAttemptWins(t *testing.T) {
	exam := model.Exam{ID: uuid.New(), Title: "History"}
	first := model.Attempt{
		ID:          uuid.New(),
		Exam:        model.ExamRef{ID: exam.ID},
		Score:       4,
		AttemptedAt: time.Now().Add(-time.Hour),
	}
	second := model.Attempt{
		ID:          uuid.New(),
		Exam:        model.ExamRef{ID: exam.ID, Title: exam.Title},
		Score:       9,
		AttemptedAt: time.Now(),
	}

	statuses := DeriveStatuses([]model.Exam{exam}, []model.Attempt{first, second})

	if !statuses[0].Attempted {
		t.Fatal("exam should be attempted")
	}
	if statuses[0].Attempt.Score != 4 {
		t.Errorf("earliest attempt should win, got score %d", statuses[0].Attempt.Score)
	}
}

func TestExamRefJSONRoundTrip(t *testing.T) {
	id := uuid.New()

	var bare model.ExamRef
	if err := json.Unmarshal([]byte(`"`+id.String()+`"`), &bare); err != nil {
		t.Fatalf("unmarshal bare ref: %v", err)
	}
	if bare.ID != id || bare.Title != "" {
		t.Errorf("bare ref parsed as %+v", bare)
	}

	var expanded model.ExamRef
	payload := []byte(`{"id":"` + id.String() + `","title":"Algebra"}`)
	if err := json.Unmarshal(payload, &expanded); err != nil {
		t.Fatalf("unmarshal expanded ref: %v", err)
	}
	if expanded.ID != id || expanded.Title != "Algebra" {
		t.Errorf("expanded ref parsed as %+v", expanded)
	}

	out, err := json.Marshal(bare)
	if err != nil {
		t.Fatalf("marshal bare ref: %v", err)
	}
	if string(out) != `"`+id.String()+`"` {
		t.Errorf("bare ref marshaled as %s", out)
	}
}
