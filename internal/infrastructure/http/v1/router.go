// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"costline/internal/domain/catalog/item"
	"costline/internal/domain/reports"
	"costline/internal/infrastructure/http/v1/handlers"
	"costline/internal/infrastructure/http/v1/middleware"
	"costline/internal/infrastructure/storage/postgres"
	"costline/internal/infrastructure/storage/postgres/catalog_repo"
	"costline/internal/infrastructure/storage/postgres/snapshot_repo"
	"costline/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// Version reported by the info endpoint.
	Version string

	// RunLogEnabled persists a trace of executed reports.
	RunLogEnabled bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Repositories and services
	itemRepo := catalog_repo.NewItemRepo(cfg.Pool)
	locationRepo := catalog_repo.NewLocationRepo(cfg.Pool)
	recipeRepo := catalog_repo.NewRecipeRepo(cfg.Pool)
	snapshots := snapshot_repo.NewSnapshotRepo(cfg.Pool)

	var runLog *postgres.RunLog
	if cfg.RunLogEnabled {
		var err error
		runLog, err = postgres.NewRunLog(cfg.Pool)
		if err != nil {
			return nil, err
		}
	}

	itemService := item.NewService(itemRepo)

	var recorder reports.RunRecorder
	if runLog != nil {
		recorder = runLog
	}
	reportService := reports.NewService(snapshots, recorder, cfg.Logger)

	reportsHandler := handlers.NewReportsHandler(reportService, runLog)
	catalogHandler := handlers.NewCatalogHandler(itemService, locationRepo, recipeRepo)

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		rep := apiV1.Group("/reports")
		{
			rep.GET("/ledger", reportsHandler.Ledger)
			rep.GET("/variance", reportsHandler.Variance)
			rep.GET("/abc", reportsHandler.ABC)
			rep.GET("/velocity", reportsHandler.Velocity)
			rep.GET("/audit", reportsHandler.Audit)
			rep.GET("/alerts", reportsHandler.Alerts)
			rep.POST("/alerts", reportsHandler.EvaluateAlerts)
			rep.GET("/runs", reportsHandler.Runs)
		}

		cat := apiV1.Group("/catalog")
		{
			cat.GET("/items", catalogHandler.ListItems)
			cat.GET("/items/:id", catalogHandler.GetItem)
			cat.GET("/categories", catalogHandler.Categories)
			cat.GET("/locations", catalogHandler.ListLocations)
			cat.GET("/recipes", catalogHandler.ListRecipes)
			cat.GET("/recipes/:menuItemId", catalogHandler.GetRecipe)
		}
	}

	return router, nil
}
