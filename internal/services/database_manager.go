package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ajramos/inboxchat/internal/db"
	"go.uber.org/zap"
)

// DatabaseManagerImpl opens one SQLite database per signed-in account
type DatabaseManagerImpl struct {
	baseDir             string
	enabled             bool
	logger              *zap.Logger
	mu                  sync.RWMutex
	currentStore        *db.Store
	currentAccountEmail string
	historyRetention    int
}

// NewDatabaseManager creates a new DatabaseManager. baseDir is either a
// directory (one file per account) or a single .sqlite3 path.
func NewDatabaseManager(baseDir string, enabled bool, logger *zap.Logger) *DatabaseManagerImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatabaseManagerImpl{
		baseDir: baseDir,
		enabled: enabled,
		logger:  logger,
	}
}

// SetHistoryRetention sets how many chat messages per account are kept on disk
func (dm *DatabaseManagerImpl) SetHistoryRetention(n int) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.historyRetention = n
}

// SwitchToAccountDatabase switches to the database for the specified account
func (dm *DatabaseManagerImpl) SwitchToAccountDatabase(ctx context.Context, accountEmail string) (*db.Store, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.currentStore != nil && dm.currentAccountEmail == accountEmail {
		return dm.currentStore, nil
	}

	if dm.currentStore != nil {
		dm.logger.Debug("closing account database", zap.String("account", dm.currentAccountEmail))
		if err := dm.currentStore.Close(); err != nil {
			dm.logger.Warn("failed to close account database", zap.Error(err))
		}
		dm.currentStore = nil
		dm.currentAccountEmail = ""
	}

	if !dm.enabled {
		dm.logger.Debug("history disabled, not opening database", zap.String("account", accountEmail))
		return nil, nil
	}

	if dm.baseDir == "" {
		return nil, fmt.Errorf("no database location configured")
	}

	dbPath := db.PathForAccount(dm.baseDir, accountEmail)
	store, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database for account %s at %s: %w", accountEmail, dbPath, err)
	}

	dm.currentStore = store
	dm.currentAccountEmail = accountEmail
	dm.logger.Info("opened account database", zap.String("account", accountEmail), zap.String("path", dbPath))

	return store, nil
}

// Services returns the reply cache and history services for the open
// database, or nils when none is open
func (dm *DatabaseManagerImpl) Services() (ReplyCacheService, HistoryService) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	if dm.currentStore == nil {
		return nil, nil
	}
	history := db.NewHistoryStore(dm.currentStore)
	history.SetRetention(dm.historyRetention)
	return NewReplyCacheService(db.NewReplyStore(dm.currentStore)), NewHistoryService(history)
}

// StoreProvider adapts the manager for AssistantServiceImpl.SetStoreProvider
func (dm *DatabaseManagerImpl) StoreProvider() StoreProvider {
	return func(ctx context.Context, accountEmail string) (ReplyCacheService, HistoryService, error) {
		if _, err := dm.SwitchToAccountDatabase(ctx, accountEmail); err != nil {
			return nil, nil, err
		}
		replies, history := dm.Services()
		return replies, history, nil
	}
}

// GetCurrentStore returns the currently active database store
func (dm *DatabaseManagerImpl) GetCurrentStore() *db.Store {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.currentStore
}

// GetCurrentAccountEmail returns the email of the account whose database is currently open
func (dm *DatabaseManagerImpl) GetCurrentAccountEmail() string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.currentAccountEmail
}

// Close closes the current database connection
func (dm *DatabaseManagerImpl) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.currentStore == nil {
		return nil
	}
	err := dm.currentStore.Close()
	dm.currentStore = nil
	dm.currentAccountEmail = ""
	return err
}
