package kvstore

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"taskflow-backend/pkg/config"
	"taskflow-backend/pkg/database"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open creates the store selected by cfg.StoreDriver.
func Open(cfg *config.Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch driver {
	case DriverMemory:
		log.Info().Msg("[Store] Using in-memory store, data will not survive a restart")
		return NewMemoryStore(), nil
	case DriverSQLite, "":
		log.Info().Msgf("[Store] Using SQLite store at %s", cfg.SQLitePath)
		return NewSQLiteStore(cfg.SQLitePath)
	case DriverPostgres:
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("[Store] Using PostgreSQL store")
		return NewGormStore(db)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
