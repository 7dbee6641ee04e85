package session

import (
	"testing"

	"github.com/examdesk/examdesk-backend/internal/model"
)

func sampleQuestions() []model.Question {
	return []model.Question{
		{
			ID:   "q1",
			Text: "2 + 2 = ?",
			Options: []model.Option{
				{ID: "a", Text: "3"},
				{ID: "b", Text: "4"},
			},
			CorrectAnswer: "b",
		},
		{
			ID:   "q2",
			Text: "Capital of France?",
			Options: []model.Option{
				{ID: "a", Text: "Paris"},
				{ID: "b", Text: "Lyon"},
			},
			CorrectAnswer: "a",
		},
		{
			ID:   "q3",
			Text: "Largest planet?",
			Options: []model.Option{
				{ID: "a", Text: "Mars"},
				{ID: "b", Text: "Jupiter"},
			},
			CorrectAnswer: "b",
		},
	}
}

func TestScore(t *testing.T) {
	questions := sampleQuestions()

	tests := []struct {
		name    string
		answers map[string]string
		want    int
	}{
		{
			name:    "all correct",
			answers: map[string]string{"q1": "b", "q2": "a", "q3": "b"},
			want:    3,
		},
		{
			name:    "no answers",
			answers: map[string]string{},
			want:    0,
		},
		{
			name:    "partial with wrong and stray answers",
			answers: map[string]string{"q1": "b", "q2": "b", "q99": "a"},
			want:    1,
		},
		{
			name:    "answer not matching any option scores nothing",
			answers: map[string]string{"q1": "z"},
			want:    0,
		},
		{
			name:    "nil answers",
			answers: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(questions, tt.answers); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}
