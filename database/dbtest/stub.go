// Package dbtest provides an in-memory database.Session that counts every call.
package dbtest

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/expki/go-olapcache/database"
)

// Stub answers whole-view scans from Views and point lookups from Lookups.
type Stub struct {
	lock sync.Mutex

	views        map[string][]database.Row
	viewErrors   map[string]error
	lookups      map[string]map[any]database.Row
	lookupErrors map[any]error
	prepareErr   error
	batchErr     error
	delay        time.Duration
	concurrency  int

	executeCalls    map[string]int
	prepareCalls    int
	concurrentCalls int
	lookupCalls     int
	pageSizes       map[string][]int
}

func New() *Stub {
	return &Stub{
		views:        make(map[string][]database.Row),
		viewErrors:   make(map[string]error),
		lookups:      make(map[string]map[any]database.Row),
		lookupErrors: make(map[any]error),
		executeCalls: make(map[string]int),
		pageSizes:    make(map[string][]int),
	}
}

func (s *Stub) SetView(query string, rows ...database.Row) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.views[query] = rows
	return s
}

func (s *Stub) FailView(query string, err error) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.viewErrors[query] = err
	return s
}

// SetLookup registers the row returned by the prepared query for id.
func (s *Stub) SetLookup(query string, id any, row database.Row) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.lookups[query] == nil {
		s.lookups[query] = make(map[any]database.Row)
	}
	s.lookups[query][id] = row
	return s
}

// FailLookup makes every point lookup for id fail.
func (s *Stub) FailLookup(id any, err error) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lookupErrors[id] = err
	return s
}

func (s *Stub) FailPrepare(err error) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.prepareErr = err
	return s
}

// FailBatch makes ExecuteConcurrent fail before any lookup is issued.
func (s *Stub) FailBatch(err error) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.batchErr = err
	return s
}

// SetConcurrency bounds the number of point lookups in flight.
func (s *Stub) SetConcurrency(limit int) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.concurrency = limit
	return s
}

// SetDelay slows every storage round trip down.
func (s *Stub) SetDelay(delay time.Duration) *Stub {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.delay = delay
	return s
}

func (s *Stub) Execute(ctx context.Context, stmt database.Statement) ([]database.Row, error) {
	s.lock.Lock()
	s.executeCalls[stmt.Query]++
	s.pageSizes[stmt.Query] = append(s.pageSizes[stmt.Query], stmt.PageSize)
	rows, err, delay := s.views[stmt.Query], s.viewErrors[stmt.Query], s.delay
	s.lock.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, errors.Join(database.ErrUnavailable, err)
	}
	return cloneRows(rows), nil
}

func (s *Stub) Prepare(ctx context.Context, query string) (database.Prepared, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.prepareCalls++
	if s.prepareErr != nil {
		return database.Prepared{}, errors.Join(database.ErrUnavailable, s.prepareErr)
	}
	return database.Prepared{Query: query}, nil
}

func (s *Stub) ExecuteConcurrent(ctx context.Context, prepared database.Prepared, args [][]any) ([]database.LookupResult, error) {
	s.lock.Lock()
	s.concurrentCalls++
	batchErr, concurrency := s.batchErr, s.concurrency
	s.lock.Unlock()
	if batchErr != nil {
		return nil, errors.Join(database.ErrUnavailable, batchErr)
	}
	return database.FanOut(ctx, concurrency, args, func(ctx context.Context, tuple []any) ([]database.Row, error) {
		return s.lookup(ctx, prepared.Query, tuple)
	}), nil
}

func (s *Stub) lookup(ctx context.Context, query string, tuple []any) ([]database.Row, error) {
	s.lock.Lock()
	s.lookupCalls++
	delay := s.delay
	var (
		row   database.Row
		found bool
		err   error
	)
	if len(tuple) > 0 {
		row, found = s.lookups[query][tuple[0]]
		err = s.lookupErrors[tuple[0]]
	}
	s.lock.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, errors.Join(database.ErrUnavailable, err)
	}
	if !found {
		return nil, nil
	}
	return cloneRows([]database.Row{row}), nil
}

func (s *Stub) Close() {}

// ExecuteCalls counts whole-view scans of query.
func (s *Stub) ExecuteCalls(query string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.executeCalls[query]
}

// PageSizes lists the page size hint of every scan of query.
func (s *Stub) PageSizes(query string) []int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]int(nil), s.pageSizes[query]...)
}

func (s *Stub) PrepareCalls() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.prepareCalls
}

// ConcurrentCalls counts ExecuteConcurrent batches, one per resolution.
func (s *Stub) ConcurrentCalls() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.concurrentCalls
}

// LookupCalls counts individual point lookups.
func (s *Stub) LookupCalls() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.lookupCalls
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.Join(database.ErrUnavailable, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func cloneRows(rows []database.Row) []database.Row {
	if rows == nil {
		return nil
	}
	out := make([]database.Row, len(rows))
	for idx, row := range rows {
		out[idx] = maps.Clone(row)
	}
	return out
}
