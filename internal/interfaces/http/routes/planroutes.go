package routes

import (
	"github.com/gin-gonic/gin"

	"prepwise/internal/interfaces/http/handlers"
)

// PlanRouteConfig holds dependencies for plan routes.
type PlanRouteConfig struct {
	PlanHandler *handlers.PlanHandler
}

// SetupPlanRoutes configures the public plan catalog routes.
func SetupPlanRoutes(api *gin.RouterGroup, cfg *PlanRouteConfig) {
	api.GET("/plans", cfg.PlanHandler.GetPublicPlans)
}
