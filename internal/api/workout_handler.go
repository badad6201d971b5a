package api

import (
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler serves the read-only workout catalog.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// WorkoutsByPart serves GET /api/workouts-by-part.
func (h *WorkoutHandler) WorkoutsByPart(c *gin.Context) {
	var partID *int
	if raw := c.Query("workout_part_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "workout_part_id must be an integer")
			return
		}
		partID = &id
	}

	grouped, err := h.workoutService.WorkoutsByPart(c.Request.Context(), partID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, grouped)
}

// WorkoutName serves GET /api/workout-name/:workout_key.
func (h *WorkoutHandler) WorkoutName(c *gin.Context) {
	workoutKey, err := strconv.Atoi(c.Param("workout_key"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "workout_key must be an integer")
		return
	}

	name, err := h.workoutService.WorkoutName(c.Request.Context(), workoutKey)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout_key": workoutKey, "workout_name": name})
}
