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

// TrackingHandler holds the tracking service dependency and serves both
// daily logs and metrics.
type TrackingHandler struct {
	trackingService service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// DailyLogRequest is the wire payload for creating or updating a daily log.
type DailyLogRequest struct {
	UserID               string    `json:"userId"`
	PlanID               string    `json:"planId"`
	Date                 time.Time `json:"date" binding:"required"`
	ActualNutrition      string    `json:"actualNutrition"`
	ActualExercise       string    `json:"actualExercise"`
	CompletionPercentage float64   `json:"completionPercentage"`
	Notes                string    `json:"notes"`
}

func (r DailyLogRequest) toInput() (service.DailyLogInput, error) {
	input := service.DailyLogInput{
		Date:                 r.Date,
		ActualNutrition:      r.ActualNutrition,
		ActualExercise:       r.ActualExercise,
		CompletionPercentage: r.CompletionPercentage,
		Notes:                r.Notes,
	}
	if r.UserID != "" {
		userID, err := primitive.ObjectIDFromHex(r.UserID)
		if err != nil {
			return service.DailyLogInput{}, errors.New("invalid userId format")
		}
		input.UserID = userID
	}
	if r.PlanID != "" {
		planID, err := primitive.ObjectIDFromHex(r.PlanID)
		if err != nil {
			return service.DailyLogInput{}, errors.New("invalid planId format")
		}
		input.PlanID = planID
	}
	return input, nil
}

// MetricRequest is the wire payload for recording a metric.
type MetricRequest struct {
	UserID     string    `json:"userId"`
	Type       string    `json:"type" binding:"required"`
	Value      float64   `json:"value" binding:"required"`
	RecordedAt time.Time `json:"recordedAt" binding:"required"`
}

func (r MetricRequest) toInput() (service.MetricInput, error) {
	input := service.MetricInput{
		Type:       r.Type,
		Value:      r.Value,
		RecordedAt: r.RecordedAt,
	}
	if r.UserID != "" {
		userID, err := primitive.ObjectIDFromHex(r.UserID)
		if err != nil {
			return service.MetricInput{}, errors.New("invalid userId format")
		}
		input.UserID = userID
	}
	return input, nil
}

// === Daily Logs ===

func (h *TrackingHandler) ListDailyLogs(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	logs, err := h.trackingService.ListDailyLogs(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list daily logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *TrackingHandler) GetDailyLog(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	log, err := h.trackingService.GetDailyLog(c.Request.Context(), principal, id)
	if err != nil {
		if errors.Is(err, service.ErrDailyLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get daily log")
		}
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *TrackingHandler) CreateDailyLog(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	var req DailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	log, err := h.trackingService.CreateDailyLog(c.Request.Context(), principal, input)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create daily log")
		}
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (h *TrackingHandler) UpdateDailyLog(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	log, err := h.trackingService.UpdateDailyLog(c.Request.Context(), principal, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrDailyLogNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update daily log")
		}
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *TrackingHandler) DeleteDailyLog(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err = h.trackingService.DeleteDailyLog(c.Request.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrDailyLogNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete daily log")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// === Metrics ===

func (h *TrackingHandler) ListMetrics(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	metrics, err := h.trackingService.ListMetrics(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list metrics")
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *TrackingHandler) GetMetric(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	metric, err := h.trackingService.GetMetric(c.Request.Context(), principal, id)
	if err != nil {
		if errors.Is(err, service.ErrMetricNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get metric")
		}
		return
	}
	c.JSON(http.StatusOK, metric)
}

func (h *TrackingHandler) CreateMetric(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}

	var req MetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	metric, err := h.trackingService.CreateMetric(c.Request.Context(), principal, input)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create metric")
		}
		return
	}
	c.JSON(http.StatusCreated, metric)
}

func (h *TrackingHandler) DeleteMetric(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify calling user")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err = h.trackingService.DeleteMetric(c.Request.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrMetricNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete metric")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
