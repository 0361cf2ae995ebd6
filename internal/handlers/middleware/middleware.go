package middleware

import (
	"hauswart/config"
	authController "hauswart/internal/controllers/auth"
	"hauswart/internal/database"
	"hauswart/internal/events"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	Config   config.Config
	auth     authController.AuthControllerInterface
	eventBus *events.EventBus
	log      logger.Logger
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	auth authController.AuthControllerInterface,
) Middleware {
	return Middleware{
		DB:       db,
		Config:   config,
		auth:     auth,
		eventBus: eventBus,
		log:      logger.New("middleware"),
	}
}
