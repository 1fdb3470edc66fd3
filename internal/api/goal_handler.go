package api

import (
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GoalHandler holds the goal service dependency.
type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest is the wire payload for creating or updating a goal. There
// is no user field: goals always belong to the calling client.
type GoalRequest struct {
	Description string     `json:"description" binding:"required"`
	TargetValue string     `json:"targetValue"`
	TargetDate  *time.Time `json:"targetDate"`
	Status      string     `json:"status"`
}

func (r GoalRequest) toInput() service.GoalInput {
	return service.GoalInput{
		Description: r.Description,
		TargetValue: r.TargetValue,
		TargetDate:  r.TargetDate,
		Status:      r.Status,
	}
}

// List returns the goals visible to the caller.
func (h *GoalHandler) List(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	goals, err := h.goalService.List(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list goals")
		return
	}
	c.JSON(http.StatusOK, goals)
}

// Get returns a single goal if the caller may see it.
func (h *GoalHandler) Get(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	goal, err := h.goalService.Get(c.Request.Context(), principal, id)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get goal")
		}
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Create records a new goal for the calling client.
func (h *GoalHandler) Create(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal, err := h.goalService.Create(c.Request.Context(), principal, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create goal")
		}
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// Update modifies one of the caller's goals.
func (h *GoalHandler) Update(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal, err := h.goalService.Update(c.Request.Context(), principal, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrGoalAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrGoalNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update goal")
		}
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Delete removes one of the caller's goals.
func (h *GoalHandler) Delete(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err = h.goalService.Delete(c.Request.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrGoalNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete goal")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
