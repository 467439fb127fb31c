package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	accessusecases "prepwise/internal/application/access/usecases"
	catalogusecases "prepwise/internal/application/catalog/usecases"
	subscriptionusecases "prepwise/internal/application/subscription/usecases"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/infrastructure/config"
	"prepwise/internal/infrastructure/repository"
	"prepwise/internal/interfaces/http/handlers"
	"prepwise/internal/interfaces/http/middleware"
	"prepwise/internal/interfaces/http/routes"
	"prepwise/internal/shared/biztime"
	"prepwise/internal/shared/logger"
)

// Router wires repositories, use cases and handlers onto a gin engine.
type Router struct {
	engine *gin.Engine
}

// NewRouter builds the full HTTP surface from the process dependencies.
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log logger.Interface) *Router {
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(log.Named("http")))

	loc := biztime.Location()

	store := cache.NewRedisStore(redisClient, log.Named("cache"))
	reader := cache.NewFallbackReader(store, log.Named("reader"), cache.Options{
		Retries:         cfg.Quota.ReadRetries,
		SupplierTimeout: time.Duration(cfg.Quota.SupplierTimeoutSeconds) * time.Second,
	})

	planRepo := repository.NewPlanRepository(db, log.Named("repo.plan"))
	subRepo := repository.NewSubscriptionRepository(db, loc, log.Named("repo.subscription"))
	subjectRepo := repository.NewSubjectRepository(db, log.Named("repo.subject"))
	topicRepo := repository.NewTopicRepository(db, log.Named("repo.topic"))
	masteryRepo := repository.NewMasteryRepository(db, log.Named("repo.mastery"))

	ents := accessusecases.NewEntitlementService(subRepo, planRepo, reader, cfg.Quota, loc, log.Named("entitlements"))

	getLimitStatusUC := accessusecases.NewGetLimitStatusUseCase(ents, log.Named("uc.limitstatus"))
	canAccessTopicUC := accessusecases.NewCanAccessTopicUseCase(ents, topicRepo, reader, cfg.Quota, log.Named("uc.topicaccess"))
	recordTestTakenUC := accessusecases.NewRecordTestTakenUseCase(ents, subRepo, planRepo, reader, log.Named("uc.recordtest"))

	listSubjectsUC := catalogusecases.NewListSubjectsUseCase(subjectRepo, reader, cfg.Quota, log.Named("uc.subjects"))
	listTopicsUC := catalogusecases.NewListTopicsUseCase(subjectRepo, topicRepo, ents, reader, cfg.Quota, log.Named("uc.topics"))
	getMasteryUC := catalogusecases.NewGetMasteryUseCase(subjectRepo, masteryRepo, reader, cfg.Quota, log.Named("uc.mastery"))

	getPublicPlansUC := subscriptionusecases.NewGetPublicPlansUseCase(planRepo, reader, cfg.Quota, log.Named("uc.plans"))

	identity := middleware.NewIdentityMiddleware()

	healthHandler := handlers.NewHealthHandler(db, redisClient)
	planHandler := handlers.NewPlanHandler(getPublicPlansUC, log.Named("handler.plan"))
	catalogHandler := handlers.NewCatalogHandler(listSubjectsUC, listTopicsUC, getMasteryUC, log.Named("handler.catalog"))
	accessHandler := handlers.NewAccessHandler(getLimitStatusUC, canAccessTopicUC, recordTestTakenUC, log.Named("handler.access"))

	engine.GET("/health", healthHandler.Health)

	api := engine.Group("/api/v1")
	routes.SetupPlanRoutes(api, &routes.PlanRouteConfig{PlanHandler: planHandler})
	routes.SetupCatalogRoutes(api, &routes.CatalogRouteConfig{
		CatalogHandler:     catalogHandler,
		IdentityMiddleware: identity,
	})
	routes.SetupAccessRoutes(api, &routes.AccessRouteConfig{
		AccessHandler:      accessHandler,
		IdentityMiddleware: identity,
	})

	return &Router{engine: engine}
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
