package main

import (
	"fmt"

	"github.com/ajramos/inboxchat/internal/backend"
	"github.com/ajramos/inboxchat/internal/config"
	"github.com/ajramos/inboxchat/internal/logging"
	"github.com/ajramos/inboxchat/internal/services"
	"go.uber.org/zap"
)

// env holds the services shared by the dashboard and the headless commands
type env struct {
	cfg       *config.Config
	manager   *config.Manager
	logger    *zap.Logger
	client    *backend.Client
	browser   *services.BrowserServiceImpl
	databases *services.DatabaseManagerImpl
	assistant *services.AssistantServiceImpl
}

// newEnv loads the configuration and builds the service graph
func newEnv() (*env, error) {
	manager := config.NewManager()
	if err := manager.LoadFromFile(config.ResolveConfigPath(configPath)); err != nil {
		return nil, err
	}
	cfg := manager.GetConfig()

	logger, err := logging.New(logging.Options{
		Path:    cfg.LogPath(),
		Level:   cfg.LogLevel,
		Verbose: verbose,
	})
	if err != nil {
		return nil, err
	}

	client, err := backend.NewClient(backend.Options{
		BaseURL:       cfg.Backend.URL,
		SessionCookie: cfg.Backend.SessionCookie,
		AuthToken:     cfg.Backend.AuthToken,
		Timeout:       cfg.GetTimeout(),
		Logger:        logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("could not create backend client: %w", err)
	}

	databases := services.NewDatabaseManager(cfg.CachePath(), cfg.History.Enabled, logger)
	databases.SetHistoryRetention(cfg.History.Limit)

	assistant := services.NewAssistantService(client, nil, nil, logger)
	assistant.SetHistoryLimit(cfg.History.Limit)
	assistant.SetStoreProvider(databases.StoreProvider())

	return &env{
		cfg:       cfg,
		manager:   manager,
		logger:    logger,
		client:    client,
		browser:   services.NewBrowserService(),
		databases: databases,
		assistant: assistant,
	}, nil
}

// Close releases the account database and flushes the logger
func (e *env) Close() {
	if err := e.databases.Close(); err != nil {
		e.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = e.logger.Sync()
}
