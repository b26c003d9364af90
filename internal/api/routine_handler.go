package api

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/metrics"
	"alcyxob/routine-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoutineHandler serves the caller's own routines.
type RoutineHandler struct {
	routineService service.RoutineService
	metrics        *metrics.Manager
}

func NewRoutineHandler(routineService service.RoutineService, m *metrics.Manager) *RoutineHandler {
	return &RoutineHandler{routineService: routineService, metrics: m}
}

// RoutineRequest is the body of POST /routines. Field rules are checked by the service.
type RoutineRequest struct {
	Category     string              `json:"category"`
	Name         string              `json:"name"`
	Description  *string             `json:"description"`
	Date         string              `json:"date"`
	Sets         []domain.RoutineSet `json:"sets"`
	Observations *string             `json:"observations"`
	VideoURLs    []string            `json:"videoUrls"`
}

func (r RoutineRequest) toDomain() domain.Routine {
	return domain.Routine{
		Category:     r.Category,
		Name:         r.Name,
		Description:  r.Description,
		Date:         r.Date,
		Sets:         r.Sets,
		Observations: r.Observations,
		VideoURLs:    r.VideoURLs,
	}
}

// UpdateRoutineRequest is the body of PATCH /routines/:id. Absent or null fields
// are left unchanged; an empty description or observations clears it.
type UpdateRoutineRequest struct {
	Category     *string              `json:"category"`
	Name         *string              `json:"name"`
	Description  *string              `json:"description"`
	Date         *string              `json:"date"`
	Sets         *[]domain.RoutineSet `json:"sets"`
	Observations *string              `json:"observations"`
	VideoURLs    *[]string            `json:"videoUrls"`
}

type VideoUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// CreateRoutine godoc
// @Summary Log a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Param routine body RoutineRequest true "Routine"
// @Success 201 {object} domain.Routine
// @Failure 400 {object} gin.H "Validation error with fields"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	routine, err := h.routineService.Create(c.Request.Context(), claims, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.CounterRoutinesCreated.Inc()
	c.JSON(http.StatusCreated, routine)
}

// ListRoutines godoc
// @Summary List the caller's routines
// @Tags Routines
// @Produce json
// @Success 200 {array} domain.Routine
// @Router /routines [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	routines, err := h.routineService.List(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

// GetRoutine godoc
// @Summary Get one of the caller's routines
// @Tags Routines
// @Produce json
// @Param id path string true "Routine ID"
// @Success 200 {object} domain.Routine
// @Failure 404 {object} gin.H
// @Router /routines/{id} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	routine, err := h.routineService.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// UpdateRoutine godoc
// @Summary Partially update a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Param id path string true "Routine ID"
// @Param routine body UpdateRoutineRequest true "Fields to change"
// @Success 200 {object} domain.Routine
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /routines/{id} [patch]
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req UpdateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	routine, err := h.routineService.Update(c.Request.Context(), claims, c.Param("id"), domain.RoutinePatch{
		Category:     req.Category,
		Name:         req.Name,
		Description:  req.Description,
		Date:         req.Date,
		Sets:         req.Sets,
		Observations: req.Observations,
		VideoURLs:    req.VideoURLs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine godoc
// @Summary Delete a routine
// @Tags Routines
// @Produce json
// @Param id path string true "Routine ID"
// @Success 200 {object} gin.H "{id}"
// @Failure 404 {object} gin.H
// @Router /routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	id, err := h.routineService.Remove(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// RequestVideoUpload godoc
// @Summary Get a presigned URL to upload a routine video
// @Tags Routines
// @Accept json
// @Produce json
// @Param id path string true "Routine ID"
// @Param video body VideoUploadRequest true "File details"
// @Success 201 {object} service.VideoUpload
// @Failure 404 {object} gin.H
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /routines/{id}/videos [post]
func (h *RoutineHandler) RequestVideoUpload(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	upload, err := h.routineService.RequestVideoUpload(c.Request.Context(), claims, c.Param("id"), req.FileName, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// ListVideoLinks godoc
// @Summary Playable links of a routine's videos
// @Tags Routines
// @Produce json
// @Param id path string true "Routine ID"
// @Success 200 {array} string
// @Router /routines/{id}/videos [get]
func (h *RoutineHandler) ListVideoLinks(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	links, err := h.routineService.VideoLinks(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}
