package app

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"meetups.app/api"
	"meetups.app/config"
	"meetups.app/database"
	"meetups.app/events"
	"meetups.app/pkg/security"
	"meetups.app/providers"
	"meetups.app/repository"
	"meetups.app/scheduler"
	"meetups.app/service"
	"meetups.app/storage"
	"meetups.app/worker"
)

// Application represents the main application with all its dependencies
type Application struct {
	config      *config.Config
	db          *gorm.DB
	server      *api.Server
	scheduler   *scheduler.Scheduler
	pool        *worker.Pool
	hub         *events.Hub
	userService service.UserServiceInterface
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...")

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	// Background task pool
	queue, err := worker.NewQueue(&app.config.Worker)
	if err != nil {
		return fmt.Errorf("create task queue: %w", err)
	}
	app.pool = worker.NewPool(queue, &app.config.Worker)
	tasks := &service.PoolSubmitter{Pool: app.pool}

	// Shared infrastructure
	codec := security.NewTokenCodec(app.config.Auth.SecretKey)
	store := storage.NewFileStore(&app.config.Storage)
	app.hub = events.NewHub()

	// Providers
	emailProvider := providers.NewSMTPEmailProvider(&app.config.Email)
	searchProvider := providers.NewDBSearchProvider(app.db)

	// Repositories
	userRepo := repository.NewUserRepository(app.db)
	tokenRepo := repository.NewTokenRepository(app.db)
	meetupRepo := repository.NewMeetupRepository(app.db)
	subscriptionRepo := repository.NewSubscriptionRepository(app.db)

	// Services
	emailService := service.NewEmailService(emailProvider, codec, tasks, app.config.AppBaseURL)
	userService := service.NewUserService(userRepo, tokenRepo, emailService, codec, store, app.config.Superuser)
	meetupService := service.NewMeetupService(meetupRepo, searchProvider, app.hub)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo)
	reportService := service.NewReportService(meetupRepo, store, tasks)
	app.userService = userService

	// Task handlers must be registered before the pool starts
	app.pool.Register(service.TaskSendVerificationEmail, emailService.HandleSendEmail)
	app.pool.Register(service.TaskCreateCSVReport, reportService.HandleCreateReport)
	app.pool.Register(service.TaskCreatePDFReport, reportService.HandleCreateReport)

	app.server = api.NewServer(
		app.db,
		app.config,
		userService,
		meetupService,
		subscriptionService,
		reportService,
		tokenRepo,
		app.hub,
	)
	app.scheduler = scheduler.NewScheduler(tokenRepo)

	slog.Info("Services initialized successfully")
	return nil
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting application...")

	if err := app.userService.EnsureSuperuser(context.Background()); err != nil {
		return fmt.Errorf("ensure superuser account: %w", err)
	}

	slog.Info("Starting task pool...")
	app.pool.Start()

	slog.Info("Starting scheduler...")
	app.scheduler.Start()

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.pool != nil {
		app.pool.Stop()
	}
	if app.hub != nil {
		app.hub.Close()
	}
	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
