package api

import (
	"alcyxob/routine-tracker/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// VolumeByDay godoc
// @Summary Training volume per day
// @Tags Progress
// @Produce json
// @Param days query int false "Number of days, today included (default 7)"
// @Success 200 {array} domain.DayVolume
// @Failure 400 {object} gin.H
// @Router /progress/volume [get]
func (h *ProgressHandler) VolumeByDay(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	days := service.DefaultVolumeDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": gin.H{"days": "days must be an integer"}})
			return
		}
		days = parsed
	}

	series, err := h.progressService.VolumeByDay(c.Request.Context(), claims, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// ExerciseProgress godoc
// @Summary Max-weight trend of one exercise
// @Tags Progress
// @Produce json
// @Param name path string true "Exercise name"
// @Success 200 {object} domain.ExerciseProgress
// @Router /progress/exercises/{name} [get]
func (h *ProgressHandler) ExerciseProgress(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	progress, err := h.progressService.ExerciseProgress(c.Request.Context(), claims, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
