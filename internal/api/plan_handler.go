package api

import (
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// PlanRequest is the wire payload for creating or updating a plan. The
// trainer is never part of it; the authoring trainer is always the caller.
type PlanRequest struct {
	ClientID      string    `json:"clientId"`
	Date          time.Time `json:"date" binding:"required"`
	NutritionPlan string    `json:"nutritionPlan"`
	ExercisePlan  string    `json:"exercisePlan"`
}

func (r PlanRequest) toInput() (service.PlanInput, error) {
	input := service.PlanInput{
		Date:          r.Date,
		NutritionPlan: r.NutritionPlan,
		ExercisePlan:  r.ExercisePlan,
	}
	if r.ClientID != "" {
		clientID, err := primitive.ObjectIDFromHex(r.ClientID)
		if err != nil {
			return service.PlanInput{}, errors.New("invalid clientId format")
		}
		input.ClientID = clientID
	}
	return input, nil
}

// List returns the plans visible to the caller.
func (h *PlanHandler) List(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	plans, err := h.planService.List(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// Get returns a single plan if the caller may see it.
func (h *PlanHandler) Get(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), principal, id)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get plan")
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Create records a new plan for a client. The service denies it unless the
// calling trainer holds an active subscription with that client.
func (h *PlanHandler) Create(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), principal, input)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create plan")
		}
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// Update modifies a plan authored by the calling trainer.
func (h *PlanHandler) Update(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update plan")
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Delete removes a plan authored by the calling trainer.
func (h *PlanHandler) Delete(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err = h.planService.Delete(c.Request.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete plan")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
