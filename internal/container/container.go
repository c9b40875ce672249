package container

import (
	"context"

	"user-api/internal/config"
	"user-api/internal/identity"
	"user-api/internal/identity/cognito"
	"user-api/internal/repository"
	"user-api/internal/service"
	"user-api/pkg/database"
	"user-api/pkg/logger"
	"user-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Provider    identity.Provider
	Users       repository.UserRepository
	AuthService *service.AuthService
	UserService *service.UserService
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Redis is optional; without it the user service reads straight from
	// the database on every authenticated request.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	provider, err := cognito.New(ctx, cognito.Config{
		Region:     cfg.AWSRegion,
		UserPoolID: cfg.CognitoUserPoolID,
		ClientID:   cfg.CognitoClientID,
		Timeout:    cfg.CognitoTimeout,
	}, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	users := repository.NewUserRepository(db)

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Provider:    provider,
		Users:       users,
		AuthService: service.NewAuthService(log, provider, users),
		UserService: service.NewUserService(log, users, redisClient),
	}, nil
}

// Close releases held resources
func (c *Container) Close(ctx context.Context) {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Error("Failed to close Redis connection")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
