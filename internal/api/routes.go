package api

import (
	"alcyxob/fitness-coach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers into the router. Authentication is the
// only concern handled at the routing layer; role and relationship checks
// happen in the services through the policy engine, so a route never
// encodes who may call it.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	subService service.SubscriptionService,
	goalService service.GoalService,
	planService service.PlanService,
	trackingService service.TrackingService,
) {

	authHandler := NewAuthHandler(authService)
	subHandler := NewSubscriptionHandler(subService)
	goalHandler := NewGoalHandler(goalService)
	planHandler := NewPlanHandler(planService)
	trackingHandler := NewTrackingHandler(trackingService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			principal, err := principalFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": principal.ID.Hex(), "role": principal.Role})
		})

		// --- User routes ---
		userGroup := protected.Group("/users")
		{
			// POST /api/v1/users/{id}/onboard - self-service only
			userGroup.POST("/:id/onboard", authHandler.Onboard)
			// Profile picture upload: request a presigned URL, then confirm.
			userGroup.POST("/me/profile-picture", authHandler.RequestProfilePictureUploadURL)
			userGroup.PUT("/me/profile-picture", authHandler.ConfirmProfilePicture)
		}

		// --- Subscription routes ---
		subGroup := protected.Group("/subscriptions")
		{
			subGroup.GET("", subHandler.List)
			subGroup.GET("/:id", subHandler.Get)
			subGroup.POST("", subHandler.Create)
			subGroup.PUT("/:id", subHandler.Update)
			subGroup.PATCH("/:id", subHandler.Update)
			subGroup.DELETE("/:id", subHandler.Delete)
		}

		// --- Goal routes ---
		goalGroup := protected.Group("/goals")
		{
			goalGroup.GET("", goalHandler.List)
			goalGroup.GET("/:id", goalHandler.Get)
			goalGroup.POST("", goalHandler.Create)
			goalGroup.PUT("/:id", goalHandler.Update)
			goalGroup.PATCH("/:id", goalHandler.Update)
			goalGroup.DELETE("/:id", goalHandler.Delete)
		}

		// --- Plan routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.GET("", planHandler.List)
			planGroup.GET("/:id", planHandler.Get)
			planGroup.POST("", planHandler.Create)
			planGroup.PUT("/:id", planHandler.Update)
			planGroup.PATCH("/:id", planHandler.Update)
			planGroup.DELETE("/:id", planHandler.Delete)
		}

		// --- Daily log routes ---
		logGroup := protected.Group("/daily-logs")
		{
			logGroup.GET("", trackingHandler.ListDailyLogs)
			logGroup.GET("/:id", trackingHandler.GetDailyLog)
			logGroup.POST("", trackingHandler.CreateDailyLog)
			logGroup.PUT("/:id", trackingHandler.UpdateDailyLog)
			logGroup.PATCH("/:id", trackingHandler.UpdateDailyLog)
			logGroup.DELETE("/:id", trackingHandler.DeleteDailyLog)
		}

		// --- Metric routes ---
		metricGroup := protected.Group("/metrics")
		{
			metricGroup.GET("", trackingHandler.ListMetrics)
			metricGroup.GET("/:id", trackingHandler.GetMetric)
			metricGroup.POST("", trackingHandler.CreateMetric)
			metricGroup.DELETE("/:id", trackingHandler.DeleteMetric)
		}
	}
}
