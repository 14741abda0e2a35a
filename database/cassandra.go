package database

import (
	"context"
	"errors"

	"github.com/expki/go-olapcache/config"
	"github.com/gocql/gocql"
)

// Cassandra serves the rollup tables from the wide-column store.
type Cassandra struct {
	session     *gocql.Session
	concurrency int
}

func NewCassandra(cfg config.Storage) (*Cassandra, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.ProtoVersion = cfg.ProtocolVersion
	cluster.Timeout = cfg.Timeout.Duration()
	cluster.PageSize = cfg.FetchSize
	if cfg.Compression {
		cluster.Compressor = SnappyCompressor{}
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Join(ErrUnavailable, errors.New("failed to create cassandra session"), err)
	}
	return &Cassandra{
		session:     session,
		concurrency: cfg.Concurrency,
	}, nil
}

// Execute scans a whole view. The page size is set on this query only.
func (c *Cassandra) Execute(ctx context.Context, stmt Statement) ([]Row, error) {
	if c.session.Closed() {
		return nil, ErrUnavailable
	}
	query := c.session.Query(stmt.Query).WithContext(ctx)
	if stmt.PageSize > 0 {
		query = query.PageSize(stmt.PageSize)
	}
	return collect(query.Iter())
}

// Prepare hands back the statement; gocql prepares and caches it per host on first use.
func (c *Cassandra) Prepare(ctx context.Context, query string) (Prepared, error) {
	if c.session.Closed() {
		return Prepared{}, ErrUnavailable
	}
	if query == "" {
		return Prepared{}, errors.New("empty lookup statement")
	}
	return Prepared{Query: query}, nil
}

func (c *Cassandra) ExecuteConcurrent(ctx context.Context, prepared Prepared, args [][]any) ([]LookupResult, error) {
	if c.session.Closed() {
		return nil, ErrUnavailable
	}
	return FanOut(ctx, c.concurrency, args, func(ctx context.Context, tuple []any) ([]Row, error) {
		return collect(c.session.Query(prepared.Query, tuple...).WithContext(ctx).Iter())
	}), nil
}

func (c *Cassandra) Close() {
	c.session.Close()
}

func collect(iter *gocql.Iter) ([]Row, error) {
	var rows []Row
	for {
		row := make(map[string]any)
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, Row(row))
	}
	if err := iter.Close(); err != nil {
		return nil, unavailable(err)
	}
	return rows, nil
}
