package service

import (
	"errors"
	"testing"

	"github.com/examdesk/examdesk-backend/internal/model"
)

func validQuestionInput() []model.QuestionInput {
	return []model.QuestionInput{
		{
			ID:   "q1",
			Text: "2 + 2 = ?",
			Options: []model.OptionInput{
				{ID: "a", Text: "3"},
				{ID: "b", Text: "4"},
			},
			CorrectAnswer: "b",
		},
		{
			ID:   "q2",
			Text: "Capital of France?",
			Options: []model.OptionInput{
				{ID: "a", Text: "Paris"},
				{ID: "b", Text: "Lyon"},
			},
			CorrectAnswer: "a",
		},
	}
}

func TestValidateQuestionsAcceptsValidInput(t *testing.T) {
	if err := validateQuestions(validQuestionInput()); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestValidateQuestionsRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func([]model.QuestionInput) []model.QuestionInput
		wantField string
	}{
		{
			name: "duplicate question id",
			mutate: func(qs []model.QuestionInput) []model.QuestionInput {
				qs[1].ID = qs[0].ID
				return qs
			},
			wantField: "questions[1].id",
		},
		{
			name: "duplicate option id",
			mutate: func(qs []model.QuestionInput) []model.QuestionInput {
				qs[0].Options[1].ID = qs[0].Options[0].ID
				return qs
			},
			wantField: "questions[0].options[1].id",
		},
		{
			name: "correct answer missing from options",
			mutate: func(qs []model.QuestionInput) []model.QuestionInput {
				qs[0].CorrectAnswer = "z"
				return qs
			},
			wantField: "questions[0].correctAnswer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestions(tt.mutate(validQuestionInput()))

			var invalid *ExamValidationError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ExamValidationError, got %v", err)
			}
			if _, ok := invalid.Fields[tt.wantField]; !ok {
				t.Errorf("expected field %q flagged, got %v", tt.wantField, invalid.Fields)
			}
		})
	}
}
