package app

import (
	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/database"
	"github.com/JimLiu0/provider-dashboard/internal/events"
	"github.com/JimLiu0/provider-dashboard/internal/handlers/middleware"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	"github.com/JimLiu0/provider-dashboard/internal/monitoring"
	"github.com/JimLiu0/provider-dashboard/internal/repositories"
	"github.com/JimLiu0/provider-dashboard/internal/services"
	"github.com/JimLiu0/provider-dashboard/internal/websockets"

	patientController "github.com/JimLiu0/provider-dashboard/internal/controllers/patients"
	migrate "github.com/rubenv/sql-migrate"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService       *services.TransactionService
	CacheInvalidationService *services.CacheInvalidationService

	// Repositories
	PatientRepo repositories.PatientRepository

	// Controllers
	PatientController *patientController.PatientController
}

// NewWithConfig wires every component and brings the schema up to date.
func NewWithConfig(config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	monitoring.Init()
	if err := monitoring.InitSentry(config); err != nil {
		log.Er("continuing without sentry", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if _, err := db.Migrate(migrate.Up, 0); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to migrate database", err)
	}

	eventBus := events.New(config)

	// Initialize services. Cache invalidation subscribes before the websocket
	// manager so reloads never see a stale list.
	transactionService := services.NewTransactionService(db)
	cacheInvalidation := services.NewCacheInvalidationService(eventBus, db)
	cacheInvalidation.Start()

	// Initialize repositories
	patientRepo := repositories.NewPatientRepository(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(config)
	patientController := patientController.New(patientRepo, transactionService, eventBus)

	websocket, err := websockets.New(patientRepo, eventBus)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:                 db,
		Config:                   config,
		Middleware:               middleware,
		TransactionService:       transactionService,
		CacheInvalidationService: cacheInvalidation,
		PatientRepo:              patientRepo,
		PatientController:        patientController,
		Websocket:                websocket,
		EventBus:                 eventBus,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []bool{
		a.Websocket == nil,
		a.EventBus == nil,
		a.TransactionService == nil,
		a.CacheInvalidationService == nil,
		a.PatientController == nil,
		a.PatientRepo == nil,
	}

	for _, isNil := range nilChecks {
		if isNil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.CacheInvalidationService != nil {
		a.CacheInvalidationService.Stop()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	monitoring.FlushSentry()
	return err
}
