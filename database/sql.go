package database

import (
	"context"
	"errors"
	"time"

	"github.com/expki/go-olapcache/config"
	"github.com/expki/go-olapcache/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// SQL serves the rollup tables from a relational mirror through gorm.
type SQL struct {
	db          *gorm.DB
	timeout     time.Duration
	concurrency int
}

func NewSQL(cfg config.Storage) (*SQL, error) {
	// get dialectors from config
	readwrite, readonly := cfg.GetDialectors()
	if len(readwrite) == 0 {
		return nil, errors.New("no writable database configured")
	}

	// open primary database connection
	db, err := gorm.Open(readwrite[0], &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger: gormlogger.New(zap.NewStdLog(logger.Logger()), gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Join(ErrUnavailable, errors.New("failed to connect database"), err)
	}
	err = db.Clauses(dbresolver.Write).AutoMigrate(models()...)
	if err != nil {
		return nil, errors.Join(errors.New("failed to migrate rollup tables"), err)
	}

	// add resolver connections
	if len(readonly)+len(readwrite) > 1 {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Sources:           readwrite,
			Replicas:          readonly,
			Policy:            dbresolver.StrictRoundRobinPolicy(),
			TraceResolverMode: true,
		}))
		if err != nil {
			logger.Sugar().Errorf("failed to register database resolver: %v", err)
			return nil, err
		}
	}
	return &SQL{
		db:          db,
		timeout:     cfg.Timeout.Duration(),
		concurrency: cfg.Concurrency,
	}, nil
}

// DB exposes the underlying connection, mainly for seeding data.
func (s *SQL) DB() *gorm.DB {
	return s.db
}

// Execute streams the whole result through database/sql, which has no fetch size
// knob, so stmt.PageSize is not used.
func (s *SQL) Execute(ctx context.Context, stmt Statement) ([]Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.scan(s.db.WithContext(ctx).Clauses(dbresolver.Read).Raw(stmt.Query))
}

func (s *SQL) Prepare(ctx context.Context, query string) (Prepared, error) {
	if query == "" {
		return Prepared{}, errors.New("empty lookup statement")
	}
	return Prepared{Query: query}, nil
}

func (s *SQL) ExecuteConcurrent(ctx context.Context, prepared Prepared, args [][]any) ([]LookupResult, error) {
	if err := s.ping(ctx); err != nil {
		return nil, err
	}
	return FanOut(ctx, s.concurrency, args, func(ctx context.Context, tuple []any) ([]Row, error) {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()
		return s.scan(s.db.WithContext(ctx).Clauses(dbresolver.Read).Raw(prepared.Query, tuple...))
	}), nil
}

func (s *SQL) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		logger.Sugar().Errorf("database close failed: %v", err)
		return
	}
	if err = sqlDB.Close(); err != nil {
		logger.Sugar().Errorf("database close failed: %v", err)
	}
}

func (s *SQL) ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable(err)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return unavailable(sqlDB.PingContext(ctx))
}

func (s *SQL) scan(tx *gorm.DB) ([]Row, error) {
	rows, err := tx.Rows()
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		row := map[string]any{}
		if err := tx.ScanRows(rows, &row); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, Row(row).Lower())
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (s *SQL) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
