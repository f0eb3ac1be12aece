package app

import (
	"context"
	"log"
	"time"

	"folio/internal/config"
	"folio/internal/database"
	dbpostgres "folio/internal/database/postgres"
	"folio/internal/domain/assessment"
	"folio/internal/infrastructure/cache"
	userpostgres "folio/internal/infrastructure/persistence/postgres"
	"folio/internal/ws"
)

// Container owns the process-wide resources: connections, the in-memory
// assessment store and the websocket hub.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Users *userpostgres.UserRepository
	users *userpostgres.PostgresDB

	Cache *cache.Redis
	Store *assessment.Store
	Hub   *ws.Hub
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	usersDB, err := userpostgres.Connect(cfg.Database)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	userRepo, err := userpostgres.NewUserRepository(usersDB)
	if err != nil {
		_ = usersDB.Close()
		_ = db.Close()
		return nil, err
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Users:  userRepo,
		users:  usersDB,
		Cache:  cache.NewRedis(logger),
		Store:  assessment.NewStore(),
		Hub:    hub,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.Users != nil {
		if err := c.Users.Close(); err != nil {
			firstErr = err
		}
	}
	if c.users != nil {
		if err := c.users.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
