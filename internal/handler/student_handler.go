package handler

import (
	"errors"
	"net/http"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/examdesk/examdesk-backend/internal/response"
	"github.com/examdesk/examdesk-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StudentHandler handles admin management of student accounts.
type StudentHandler struct {
	userService *service.UserService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(userService *service.UserService) *StudentHandler {
	return &StudentHandler{userService: userService}
}

// List godoc
// GET /api/v1/admin/students
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.userService.ListStudents(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if students == nil {
		students = []model.User{}
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// Delete godoc
// DELETE /api/v1/admin/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.userService.DeleteStudent(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student deleted successfully"})
}
