// Package routes defines HTTP routes for the account service.
package routes

import (
	"github.com/freshcart-app/account-service/internal/handlers"
	"github.com/freshcart-app/account-service/internal/middleware"
	"github.com/freshcart-app/account-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all HTTP routes for the application.
func Setup(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	jwtService service.JWTService,
	registry *prometheus.Registry,
) {
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/signin", authHandler.SignIn)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Authenticated tier
	authed := v1.Group("/auth", middleware.RequireAuth(jwtService))
	{
		authed.POST("/signout", authHandler.SignOut)
		authed.GET("/profile", authHandler.Profile)
		authed.PUT("/profile", authHandler.UpdateProfile)
	}

	// Admin tier
	admin := v1.Group("/admin", middleware.RequireAdmin(jwtService))
	{
		admin.GET("/riders", adminHandler.ListRiders)
		admin.GET("/riders/:id", adminHandler.GetRider)
		admin.PUT("/riders/:id/approve", adminHandler.ApproveRider)
		admin.PUT("/riders/:id/reject", adminHandler.RejectRider)
	}
}
