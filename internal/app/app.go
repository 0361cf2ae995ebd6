package app

import (
	"context"

	"hauswart/config"
	"hauswart/internal/database"
	"hauswart/internal/events"
	"hauswart/internal/handlers/middleware"
	"hauswart/internal/jobs"
	"hauswart/internal/repositories"
	"hauswart/internal/services"
	"hauswart/internal/websockets"

	authController "hauswart/internal/controllers/auth"
	taskController "hauswart/internal/controllers/tasks"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Service    services.Service
	Repository repositories.Repository

	AuthController authController.AuthControllerInterface
	TaskController taskController.TaskControllerInterface
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	service, err := services.New(db, config, eventBus, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	auth := authController.New(config)
	tasks := taskController.New(
		service.Feed,
		service.DispatchLock,
		service.Image,
		service.Notification,
		service.Export,
		config,
		nil,
	)

	websocket, err := websockets.New(service.Feed, auth, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, auth)

	if config.SchedulerEnabled {
		summaryJob := jobs.NewDailySummaryJob(
			db,
			repos.Task,
			eventBus,
			services.DailySummary,
		)
		if err := service.Scheduler.AddJob(summaryJob); err != nil {
			return &App{}, log.Err("failed to register daily summary job", err)
		}
		service.Scheduler.Start()
		log.Info("Registered daily completion summary job with scheduler")
	}

	app := &App{
		Database:       db,
		Config:         config,
		Middleware:     middleware,
		Service:        service,
		Repository:     repos,
		AuthController: auth,
		TaskController: tasks,
		Websocket:      websocket,
		EventBus:       eventBus,
	}

	if err := app.validate(); err != nil {
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

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Service.Feed,
		a.Service.DispatchLock,
		a.Service.Image,
		a.Service.Notification,
		a.Service.Export,
		a.Service.Scheduler,
		a.Repository.Task,
		a.Repository.Note,
		a.AuthController,
		a.TaskController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Service.Scheduler != nil {
		if closeErr := a.Service.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
