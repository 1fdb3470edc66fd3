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

// SubscriptionHandler holds the subscription service dependency.
type SubscriptionHandler struct {
	subService service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// SubscriptionRequest is the wire payload for creating or updating a
// subscription. There is no client field: the client is always the caller.
type SubscriptionRequest struct {
	TrainerID string    `json:"trainerId" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Status    string    `json:"status" binding:"required"`
}

func (r SubscriptionRequest) toInput() (service.SubscriptionInput, error) {
	trainerID, err := primitive.ObjectIDFromHex(r.TrainerID)
	if err != nil {
		return service.SubscriptionInput{}, errors.New("invalid trainerId format")
	}
	return service.SubscriptionInput{
		TrainerID: trainerID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    r.Status,
	}, nil
}

// List returns the subscriptions visible to the caller.
func (h *SubscriptionHandler) List(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	subs, err := h.subService.List(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list subscriptions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Get returns a single subscription if the caller may see it.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.subService.Get(c.Request.Context(), principal, id)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get subscription")
		}
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Create records a new subscription from the calling client to a trainer.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.subService.Create(c.Request.Context(), principal, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrTrainerNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTrainerNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create subscription")
		}
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// Update modifies a subscription. Admin only; enforced by the service.
func (h *SubscriptionHandler) Update(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.subService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrSubscriptionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update subscription")
		}
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Delete removes a subscription. Admin only; enforced by the service.
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err = h.subService.Delete(c.Request.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrSubscriptionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete subscription")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
