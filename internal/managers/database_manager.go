// package managers handles the business logic and orchestrates interactions between the application and the database.
package managers

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gadget-server/internal/config"
	"gadget-server/internal/stores"
	"gadget-server/internal/stores/mongodb"
	"gadget-server/internal/stores/postgres"
)

// DatabaseMgr defines the interface for database management.
// It hands out the stores of the configured backend.
type DatabaseMgr interface {
	Users() stores.UserStore
	Tokens() stores.TokenStore
	Categories() stores.CategoryStore
	Products() stores.ProductStore
	ValidID(id string) bool
	Ping(ctx context.Context) error
	Close()
}

// DatabaseManager is responsible for managing the database backend.
// It implements the DatabaseMgr interface.
type DatabaseManager struct {
	stores.Backend
}

// NewDatabaseManager creates and initializes a new instance of DatabaseManager with the provided backend.
func NewDatabaseManager(backend stores.Backend) DatabaseMgr {
	log.Info("Initializing database manager")
	return &DatabaseManager{Backend: backend}
}

// ConnectDatabase connects to the backend selected by DB_DRIVER.
func ConnectDatabase(ctx context.Context, cfg *config.Config) (DatabaseMgr, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return NewDatabaseManager(store), nil
	case config.DriverPostgres:
		store, err := postgres.Connect(ctx, cfg.PostgresURL())
		if err != nil {
			return nil, err
		}
		return NewDatabaseManager(store), nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}
