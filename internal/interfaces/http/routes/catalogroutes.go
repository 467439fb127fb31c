package routes

import (
	"github.com/gin-gonic/gin"

	"prepwise/internal/interfaces/http/handlers"
	"prepwise/internal/interfaces/http/middleware"
)

// CatalogRouteConfig holds dependencies for catalog routes.
type CatalogRouteConfig struct {
	CatalogHandler     *handlers.CatalogHandler
	IdentityMiddleware *middleware.IdentityMiddleware
}

// SetupCatalogRoutes configures subject and topic routes. Subject and
// topic listings accept anonymous callers, who get the free-tier view;
// mastery is strictly per user.
func SetupCatalogRoutes(api *gin.RouterGroup, cfg *CatalogRouteConfig) {
	subjects := api.Group("/subjects")
	subjects.Use(cfg.IdentityMiddleware.OptionalUser())
	{
		subjects.GET("", cfg.CatalogHandler.ListSubjects)
		subjects.GET("/:sid/topics", cfg.CatalogHandler.ListTopics)
	}

	me := api.Group("/me")
	me.Use(cfg.IdentityMiddleware.RequireUser())
	{
		me.GET("/subjects/:sid/mastery", cfg.CatalogHandler.GetMastery)
	}
}
