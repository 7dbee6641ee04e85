package handler

import (
	"errors"
	"net/http"

	"github.com/examdesk/examdesk-backend/internal/middleware"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/response"
	"github.com/examdesk/examdesk-backend/internal/service"
	"github.com/examdesk/examdesk-backend/internal/session"
	"github.com/examdesk/examdesk-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortalHandler serves the student portal: the dashboard, live exam
// sessions, and attempt history.
type PortalHandler struct {
	portalService *service.PortalService
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(portalService *service.PortalService) *PortalHandler {
	return &PortalHandler{portalService: portalService}
}

// Dashboard godoc
// GET /api/v1/student/dashboard
// Lists every exam with the caller's attempt status.
func (h *PortalHandler) Dashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	statuses, err := h.portalService.Dashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if statuses == nil {
		statuses = []session.ExamStatus{}
	}

	response.Success(c, http.StatusOK, gin.H{"exams": statuses})
}

// StartExam godoc
// POST /api/v1/student/exams/:exam_id/start
// Begins (or rejoins) a live session and returns its snapshot.
func (h *PortalHandler) StartExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sess, err := h.portalService.StartExam(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failSessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sess.Snapshot()})
}

// Paper godoc
// GET /api/v1/student/exams/:exam_id/paper
// Returns the exam questions with correct answers stripped. Requires a
// live session so papers cannot be browsed ahead of time.
func (h *PortalHandler) Paper(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, ok := h.portalService.Session(claims.UserID, examID); !ok {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return
	}

	paper, err := h.portalService.Paper(c.Request.Context(), examID)
	if err != nil {
		failSessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// State godoc
// GET /api/v1/student/exams/:exam_id/state
// Returns the live session snapshot so a reloaded client can resume.
func (h *PortalHandler) State(c *gin.Context) {
	sess, ok := h.liveSession(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess.Snapshot()})
}

// Answer godoc
// POST /api/v1/student/exams/:exam_id/answer
func (h *PortalHandler) Answer(c *gin.Context) {
	sess, ok := h.liveSession(c)
	if !ok {
		return
	}

	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := sess.SelectAnswer(req.QuestionID, req.OptionID); err != nil {
		if errors.Is(err, session.ErrUnknownQuestion) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"question_id": "not part of this exam"})
			return
		}
		failSessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": sess.Snapshot().Answers})
}

// Navigate godoc
// POST /api/v1/student/exams/:exam_id/navigate
func (h *PortalHandler) Navigate(c *gin.Context) {
	sess, ok := h.liveSession(c)
	if !ok {
		return
	}

	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cursor, err := sess.Navigate(req.Delta)
	if err != nil {
		failSessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cursor": cursor})
}

// Submit godoc
// POST /api/v1/student/exams/:exam_id/submit
func (h *PortalHandler) Submit(c *gin.Context) {
	sess, ok := h.liveSession(c)
	if !ok {
		return
	}

	score, err := sess.Submit(c.Request.Context())
	if err != nil && !errors.Is(err, session.ErrAlreadyAttempted) {
		failSessionError(c, err)
		return
	}

	snap := sess.Snapshot()
	response.Success(c, http.StatusOK, gin.H{
		"score": score,
		"total": snap.TotalQuestions,
	})
}

// Attempts godoc
// GET /api/v1/student/attempts
func (h *PortalHandler) Attempts(c *gin.Context) {
	claims := middleware.GetClaims(c)

	attempts, err := h.portalService.Attempts(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// liveSession resolves the caller's live session from the route params,
// writing the error response itself when there is none.
func (h *PortalHandler) liveSession(c *gin.Context) (*session.Session, bool) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}

	sess, ok := h.portalService.Session(claims.UserID, examID)
	if !ok {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return nil, false
	}
	return sess, true
}

// failSessionError maps session-engine errors onto the response taxonomy.
func failSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, session.ErrAlreadyAttempted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAttempted)
	case errors.Is(err, session.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, session.ErrSubmitInFlight):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, session.ErrNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrStoreFailure)
	}
}
