package handler

import (
	"errors"
	"net/http"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/examdesk/examdesk-backend/internal/response"
	"github.com/examdesk/examdesk-backend/internal/service"
	"github.com/examdesk/examdesk-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BoardHandler serves the notice board and timetable. Reads are public;
// mutations sit behind the admin group.
type BoardHandler struct {
	boardService *service.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// ListNotices godoc
// GET /api/v1/notices
func (h *BoardHandler) ListNotices(c *gin.Context) {
	notices, err := h.boardService.ListNotices(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if notices == nil {
		notices = []model.Notice{}
	}

	response.Success(c, http.StatusOK, gin.H{"notices": notices})
}

// CreateNotice godoc
// POST /api/v1/admin/notices
func (h *BoardHandler) CreateNotice(c *gin.Context) {
	var req model.CreateNoticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	notice, err := h.boardService.CreateNotice(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"notice": notice})
}

// DeleteNotice godoc
// DELETE /api/v1/admin/notices/:id
func (h *BoardHandler) DeleteNotice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.boardService.DeleteNotice(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "notice deleted successfully"})
}

// ListTimetable godoc
// GET /api/v1/timetable
func (h *BoardHandler) ListTimetable(c *gin.Context) {
	entries, err := h.boardService.ListTimetable(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if entries == nil {
		entries = []model.TimetableEntry{}
	}

	response.Success(c, http.StatusOK, gin.H{"timetable": entries})
}

// CreateTimetableEntry godoc
// POST /api/v1/admin/timetable
func (h *BoardHandler) CreateTimetableEntry(c *gin.Context) {
	var req model.CreateTimetableEntryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entry, err := h.boardService.CreateTimetableEntry(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

// DeleteTimetableEntry godoc
// DELETE /api/v1/admin/timetable/:id
func (h *BoardHandler) DeleteTimetableEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.boardService.DeleteTimetableEntry(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "timetable entry deleted successfully"})
}
