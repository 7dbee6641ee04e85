package handler

import (
	"errors"
	"net/http"

	"github.com/examdesk/examdesk-backend/internal/middleware"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/examdesk/examdesk-backend/internal/response"
	"github.com/examdesk/examdesk-backend/internal/service"
	"github.com/examdesk/examdesk-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// SeatingHandler serves the exam-room seating plan.
type SeatingHandler struct {
	seatingService *service.SeatingService
}

// NewSeatingHandler creates a new SeatingHandler.
func NewSeatingHandler(seatingService *service.SeatingService) *SeatingHandler {
	return &SeatingHandler{seatingService: seatingService}
}

// Get godoc
// GET /api/v1/seating
func (h *SeatingHandler) Get(c *gin.Context) {
	plan, err := h.seatingService.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Success(c, http.StatusOK, gin.H{"plan": nil})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// Generate godoc
// POST /api/v1/admin/seating/generate
func (h *SeatingHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.GenerateSeatingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	plan, err := h.seatingService.Generate(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		var capErr *service.CapacityError
		switch {
		case errors.Is(err, service.ErrNoStudents):
			response.Fail(c, http.StatusConflict, response.ErrNoStudents)
		case errors.As(err, &capErr):
			response.FailWithFields(c, http.StatusConflict, response.ErrSeatingCapacity,
				map[string]string{"total_benches": capErr.Error()})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"plan": plan})
}
