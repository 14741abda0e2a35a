package database

import (
	"context"
	"errors"
)

// ErrUnavailable marks connection, timeout and protocol failures of the storage.
var ErrUnavailable = errors.New("storage unavailable")

// Session is a keyspace-scoped connection to the rollup storage.
type Session interface {
	// Execute runs a whole-view scan. PageSize only applies to this statement.
	Execute(ctx context.Context, stmt Statement) ([]Row, error)

	// Prepare returns a handle for a parametrized point lookup.
	Prepare(ctx context.Context, query string) (Prepared, error)

	// ExecuteConcurrent runs the prepared lookup once per argument tuple, concurrently.
	// Results keep the order of args. The error is non-nil only when the batch could
	// not be issued at all; individual failures are reported in their LookupResult.
	ExecuteConcurrent(ctx context.Context, prepared Prepared, args [][]any) ([]LookupResult, error)

	Close()
}

type Statement struct {
	Query    string
	PageSize int
}

type Prepared struct {
	Query string
}

type LookupResult struct {
	Success bool
	Rows    []Row
	Err     error
}

func unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return errors.Join(ErrUnavailable, err)
}
