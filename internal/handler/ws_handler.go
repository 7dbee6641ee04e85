package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/examdesk/examdesk-backend/internal/middleware"
	"github.com/examdesk/examdesk-backend/internal/service"
	"github.com/examdesk/examdesk-backend/internal/session"
	ws "github.com/examdesk/examdesk-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty origin list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live exam sessions over WebSocket: countdown ticks
// and submission results flow to the client, answers and navigation
// flow back.
type WSHandler struct {
	portalService *service.PortalService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(portalService *service.PortalService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		portalService: portalService,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// ExamStream godoc
// WS /ws/v1/student/exams/:exam_id/stream
// Upgrades to WebSocket for the live session event stream.
func (h *WSHandler) ExamStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam ID"})
		return
	}

	sess, ok := h.portalService.Session(claims.UserID, examID)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no active session for this exam"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("student_id", claims.UserID.String()).
		Str("exam_id", examID.String()).
		Logger()
	wsLog.Info().Msg("Student connected")

	// The event forwarder and the read loop both write to the conn;
	// gorilla allows one writer at a time.
	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return ws.WriteTyped(conn, v)
	}

	if err := write(ws.StateResponse{Event: ws.EventState, Snapshot: sess.Snapshot()}); err != nil {
		return
	}

	events, cancel := sess.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, open := <-events:
				if !open {
					return
				}
				if err := write(ev); err != nil {
					return
				}
			case <-sess.Done():
				// Flush whatever is left, then drop the client.
				for {
					select {
					case ev := <-events:
						if err := write(ev); err != nil {
							return
						}
					default:
						conn.Close()
						return
					}
				}
			}
		}
	}()

	h.readLoop(conn, wsLog, sess, write)
	<-done
}

func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, sess *session.Session, write func(interface{}) error) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			write(ws.ErrorResponse{Event: ws.EventError, Error: "malformed message"})
			continue
		}

		switch envelope.Action {
		case ws.ActionAnswer:
			var msg ws.AnswerRequest
			if err := json.Unmarshal(raw, &msg); err != nil || msg.QuestionID == "" || msg.OptionID == "" {
				write(ws.ErrorResponse{Event: ws.EventError, Error: "question_id and option_id are required"})
				continue
			}
			if err := sess.SelectAnswer(msg.QuestionID, msg.OptionID); err != nil {
				write(ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
				continue
			}
			write(ws.AckResponse{Event: ws.EventAck, Action: ws.ActionAnswer})

		case ws.ActionNavigate:
			var msg ws.NavigateRequest
			if err := json.Unmarshal(raw, &msg); err != nil {
				write(ws.ErrorResponse{Event: ws.EventError, Error: "malformed navigate message"})
				continue
			}
			cursor, err := sess.Navigate(msg.Delta)
			if err != nil {
				write(ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
				continue
			}
			write(ws.AckResponse{Event: ws.EventAck, Action: ws.ActionNavigate, Cursor: cursor})

		case ws.ActionSubmit:
			// The submitted event reaches the client through the
			// subscription; only failures need a direct reply.
			if _, err := sess.Submit(context.Background()); err != nil &&
				!errors.Is(err, session.ErrAlreadyAttempted) &&
				!errors.Is(err, session.ErrSubmitInFlight) &&
				!errors.Is(err, session.ErrAlreadySubmitted) {
				write(ws.ErrorResponse{Event: ws.EventError, Error: "submission failed, try again"})
			}

		case ws.ActionPing:
			write(ws.PongResponse{Event: ws.EventPong})

		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			write(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(envelope.Action)})
		}
	}
}
