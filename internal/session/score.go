package session

import "github.com/examdesk/examdesk-backend/internal/model"

// Score grades an answer mapping against an exam's questions: one point
// per question whose recorded answer equals its correct option ID.
// Unanswered questions and answers that do not match any option simply
// contribute nothing; they are never an error. Every question is worth
// at most 1 point regardless of option count.
func Score(questions []model.Question, answers map[string]string) int {
	score := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectAnswer {
			score++
		}
	}
	return score
}
