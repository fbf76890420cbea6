// Package driver opens the record store selected by configuration.
package driver

import (
	"fmt"

	"github.com/kailas-cloud/mediacat/internal/config"
	"github.com/kailas-cloud/mediacat/internal/db"
	dbFile "github.com/kailas-cloud/mediacat/internal/db/file"
	dbRedis "github.com/kailas-cloud/mediacat/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/mediacat/internal/db/sqlite"
)

// Open creates the store for cfg.Driver. Valkey speaks the Redis protocol and shares its driver.
// On error the returned interface is nil, never a typed nil pointer.
func Open(cfg config.StorageConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverFile:
		s, err := dbFile.NewStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := dbSQLite.NewStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
