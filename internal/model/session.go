package model

// SelectAnswerRequest is the payload for answering a question in a live
// exam session.
type SelectAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required,max=50"`
	OptionID   string `json:"option_id" binding:"required,max=50"`
}

// NavigateRequest is the payload for moving the question cursor.
type NavigateRequest struct {
	Delta int `json:"delta" binding:"required"`
}
