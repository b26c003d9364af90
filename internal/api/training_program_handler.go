package api

import (
	"alcyxob/routine-tracker/internal/metrics"
	"alcyxob/routine-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TrainingProgramHandler struct {
	programService service.TrainingProgramService
	metrics        *metrics.Manager
}

func NewTrainingProgramHandler(programService service.TrainingProgramService, m *metrics.Manager) *TrainingProgramHandler {
	return &TrainingProgramHandler{programService: programService, metrics: m}
}

type CreateProgramRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Weeks       *int    `json:"weeks" binding:"omitempty,min=1"`
}

type CloneProgramResponse struct {
	Message             string `json:"message"`
	ClonedRoutinesCount int    `json:"clonedRoutinesCount"`
}

// CreateProgram godoc
// @Summary Create a training program
// @Tags Training Programs
// @Accept json
// @Produce json
// @Param program body CreateProgramRequest true "Program"
// @Success 201 {object} domain.TrainingProgram
// @Failure 400 {object} gin.H
// @Failure 403 {object} gin.H
// @Router /training-programs [post]
func (h *TrainingProgramHandler) CreateProgram(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), claims.UserID, service.ProgramInput{
		Name:        req.Name,
		Description: req.Description,
		Weeks:       req.Weeks,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// ListOwnPrograms godoc
// @Summary Programs authored by the caller
// @Tags Training Programs
// @Produce json
// @Success 200 {array} domain.TrainingProgram
// @Router /training-programs [get]
func (h *TrainingProgramHandler) ListOwnPrograms(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	programs, err := h.programService.ListOwnPrograms(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// ListAssignedPrograms godoc
// @Summary Programs assigned to the caller
// @Tags Training Programs
// @Produce json
// @Success 200 {array} domain.TrainingProgram
// @Router /training-programs/assigned [get]
func (h *TrainingProgramHandler) ListAssignedPrograms(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	programs, err := h.programService.ListAssignedPrograms(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// AddTemplateRoutine godoc
// @Summary Add a template routine to a program
// @Tags Training Programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param routine body RoutineRequest true "Template routine"
// @Success 201 {object} domain.Routine
// @Failure 404 {object} gin.H
// @Router /training-programs/{id}/routines [post]
func (h *TrainingProgramHandler) AddTemplateRoutine(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	routine, err := h.programService.AddTemplateRoutine(c.Request.Context(), claims, c.Param("id"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, routine)
}

// AssignToUser godoc
// @Summary Assign a program to a user
// @Tags Training Programs
// @Produce json
// @Param id path string true "Program ID"
// @Param userId path string true "User ID"
// @Success 201 {object} domain.ProgramAssignment
// @Router /training-programs/{id}/assign/{userId} [post]
func (h *TrainingProgramHandler) AssignToUser(c *gin.Context) {
	assignment, err := h.programService.AssignToUser(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// CloneProgram godoc
// @Summary Clone a program's routines into the caller's routines
// @Tags Training Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} CloneProgramResponse
// @Failure 404 {object} gin.H
// @Router /training-programs/{id}/clone [post]
func (h *TrainingProgramHandler) CloneProgram(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	count, err := h.programService.CloneProgramForUser(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.CounterRoutinesCloned.Add(float64(count))
	c.JSON(http.StatusOK, CloneProgramResponse{
		Message:             "Program cloned successfully",
		ClonedRoutinesCount: count,
	})
}
