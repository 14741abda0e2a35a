package database

import (
	"fmt"

	"github.com/expki/go-olapcache/config"
	"github.com/expki/go-olapcache/logger"
)

// Open connects to the storage selected by cfg.Driver.
func Open(cfg config.Storage) (Session, error) {
	switch cfg.Driver {
	case config.StorageDriver_Cassandra:
		session, err := NewCassandra(cfg)
		if err != nil {
			return nil, err
		}
		logger.Sugar().Infof("connected to cassandra keyspace %q", cfg.Keyspace)
		return session, nil
	case config.StorageDriver_Postgres, config.StorageDriver_Sqlite:
		session, err := NewSQL(cfg)
		if err != nil {
			return nil, err
		}
		logger.Sugar().Infof("connected to %s database", cfg.Driver)
		return session, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
