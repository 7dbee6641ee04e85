package websocket

import "github.com/examdesk/examdesk-backend/internal/session"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer   Action = "answer"
	ActionNavigate Action = "navigate"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest is sent by the client to select an option.
type AnswerRequest struct {
	Action     Action `json:"action"`
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// NavigateRequest is sent by the client to move the question cursor.
type NavigateRequest struct {
	Action Action `json:"action"`
	Delta  int    `json:"delta"`
}

// SubmitRequest is sent by the client to finish and grade the exam.
type SubmitRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────
//
// Session events (tick, submitted, submit_error) are forwarded as-is
// from the session engine; the types below cover the WS-local replies.

type Event string

const (
	EventError Event = "error"
	EventState Event = "state"
	EventAck   Event = "ack"
	EventPong  Event = "pong"
)

// StateResponse delivers the full session snapshot, sent once after the
// connection is established so a reconnecting client can catch up.
type StateResponse struct {
	Event    Event            `json:"event"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// AckResponse confirms an answer or navigate action.
type AckResponse struct {
	Event  Event  `json:"event"`
	Action Action `json:"action"`
	Cursor int    `json:"cursor,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
