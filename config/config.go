package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	AuthSecret           string `mapstructure:"AUTH_SECRET"`
	SharedPassword       string `mapstructure:"SHARED_PASSWORD"`
	NotifyServiceID      string `mapstructure:"NOTIFY_SERVICE_ID"`
	NotifyTemplateID     string `mapstructure:"NOTIFY_TEMPLATE_ID"`
	NotifyPublicKey      string `mapstructure:"NOTIFY_PUBLIC_KEY"`
	NotifyRecipientName  string `mapstructure:"NOTIFY_RECIPIENT_NAME"`
	NotifyRecipientEmail string `mapstructure:"NOTIFY_RECIPIENT_EMAIL"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"AUTH_SECRET", "SHARED_PASSWORD",
		"NOTIFY_SERVICE_ID", "NOTIFY_TEMPLATE_ID", "NOTIFY_PUBLIC_KEY",
		"NOTIFY_RECIPIENT_NAME", "NOTIFY_RECIPIENT_EMAIL",
		"SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment, "port", config.ServerPort)
	return config, nil
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error("Fatal error: invalid server port", "port", config.ServerPort)
	}

	if config.AuthSecret == "" {
		return log.ErrMsg("Fatal error: AUTH_SECRET is required")
	}

	if config.SharedPassword == "" {
		return log.ErrMsg("Fatal error: SHARED_PASSWORD is required")
	}

	// Notification delivery is optional, but when a service is configured it
	// must be configured completely.
	if config.NotifyServiceID != "" {
		if config.NotifyTemplateID == "" {
			return log.ErrMsg("Fatal error: NOTIFY_TEMPLATE_ID required when NOTIFY_SERVICE_ID is set")
		}
		if config.NotifyPublicKey == "" {
			return log.ErrMsg("Fatal error: NOTIFY_PUBLIC_KEY required when NOTIFY_SERVICE_ID is set")
		}
		if config.NotifyRecipientEmail == "" {
			return log.ErrMsg("Fatal error: NOTIFY_RECIPIENT_EMAIL required when NOTIFY_SERVICE_ID is set")
		}
	}

	return nil
}
