package routes

import (
	"github.com/gin-gonic/gin"

	"prepwise/internal/interfaces/http/handlers"
	"prepwise/internal/interfaces/http/middleware"
)

// AccessRouteConfig holds dependencies for access and quota routes.
type AccessRouteConfig struct {
	AccessHandler      *handlers.AccessHandler
	IdentityMiddleware *middleware.IdentityMiddleware
}

// SetupAccessRoutes configures the gating routes. Everything here is per
// user and requires the gateway identity header.
func SetupAccessRoutes(api *gin.RouterGroup, cfg *AccessRouteConfig) {
	me := api.Group("/me")
	me.Use(cfg.IdentityMiddleware.RequireUser())
	{
		me.GET("/limit-status", cfg.AccessHandler.GetLimitStatus)
		me.GET("/topics/:sid/access", cfg.AccessHandler.CheckTopicAccess)
		me.POST("/test-sessions", cfg.AccessHandler.RecordTestTaken)
	}
}
