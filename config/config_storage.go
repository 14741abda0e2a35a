package config

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type StorageDriver string

const (
	StorageDriver_Cassandra StorageDriver = "cassandra"
	StorageDriver_Postgres  StorageDriver = "postgres"
	StorageDriver_Sqlite    StorageDriver = "sqlite"
)

type Storage struct {
	Driver StorageDriver `json:"driver"`

	// cassandra
	Hosts           SingleOrSlice[string] `json:"hosts,omitempty"`
	Keyspace        string                `json:"keyspace,omitempty"`
	ProtocolVersion int                   `json:"protocol_version,omitempty"`
	Compression     bool                  `json:"compression,omitempty"`

	// sql
	Sqlite           string                `json:"sqlite,omitempty"`
	Postgres         SingleOrSlice[string] `json:"postgres,omitempty"`
	PostgresReadOnly SingleOrSlice[string] `json:"postgres_readonly,omitempty"`

	Timeout     Duration `json:"timeout"`
	FetchSize   int      `json:"fetch_size"`
	Concurrency int      `json:"concurrency"`
}

func (c *Storage) setDefaults() {
	if c.Driver == "" {
		c.Driver = StorageDriver_Cassandra
	}
	if c.Driver == StorageDriver_Cassandra {
		if len(c.Hosts) == 0 {
			c.Hosts = SingleOrSlice[string]{"127.0.0.1"}
		}
		if c.Keyspace == "" {
			c.Keyspace = CASSANDRA_KEYSPACE
		}
		if c.ProtocolVersion == 0 {
			c.ProtocolVersion = CASSANDRA_PROTOCOL
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = Duration(STORAGE_TIMEOUT)
	}
	if c.FetchSize <= 0 {
		c.FetchSize = FETCH_SIZE_DEFAULT
	}
	if c.Concurrency < 0 {
		c.Concurrency = 0
	} else if c.Concurrency == 0 {
		c.Concurrency = LOOKUP_CONCURRENCY
	}
}

func (c Storage) validate() error {
	switch c.Driver {
	case StorageDriver_Cassandra:
		if len(c.Hosts) == 0 {
			return errors.New("cassandra requires at least one host")
		}
	case StorageDriver_Postgres:
		if len(c.Postgres) == 0 {
			return errors.New("postgres requires at least one dsn")
		}
	case StorageDriver_Sqlite:
		if c.Sqlite == "" {
			return errors.New("sqlite requires a database path")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	return nil
}

// GetDialectors returns the gorm dialectors for the sql drivers.
func (c Storage) GetDialectors() (readwrite, readonly []gorm.Dialector) {
	switch c.Driver {
	case StorageDriver_Sqlite:
		readwrite = append(readwrite, sqlite.Open(c.Sqlite))
	case StorageDriver_Postgres:
		for _, dsn := range c.Postgres {
			readwrite = append(readwrite, postgres.Open(dsn))
		}
		for _, dsn := range c.PostgresReadOnly {
			readonly = append(readonly, postgres.Open(dsn))
		}
	}
	return
}
