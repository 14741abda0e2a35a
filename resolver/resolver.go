package resolver

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/expki/go-olapcache/cache"
	"github.com/expki/go-olapcache/database"
	"github.com/expki/go-olapcache/logger"
	"github.com/expki/go-olapcache/metrics"
)

// Resolution maps every requested id to a display name.
type Resolution struct {
	Names map[int]string
	// Missing counts ids without a matching row.
	Missing int
	// Failed counts ids whose lookup failed.
	Failed int
	Cached bool
	// Err is set when the batch could not be issued at all.
	Err error
}

// Degraded reports whether any name was substituted because storage failed.
func (r Resolution) Degraded() bool {
	return r.Err != nil || r.Failed > 0
}

// Name returns the resolved name of id, or the sentinel of kind.
func (r Resolution) Name(kind Kind, id int) string {
	if name, ok := r.Names[id]; ok {
		return name
	}
	return kind.Sentinel()
}

type Resolver struct {
	session database.Session
	store   *cache.Store
	metrics *metrics.Collectors
}

func New(session database.Session, store *cache.Store, collectors *metrics.Collectors) *Resolver {
	return &Resolver{
		session: session,
		store:   store,
		metrics: collectors,
	}
}

// Resolve turns ids into display names with one concurrent point lookup per id.
// The result always has exactly one entry per distinct requested id; ids that
// cannot be resolved map to the kind's sentinel. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, ids []int) Resolution {
	if len(ids) == 0 {
		return Resolution{Names: map[int]string{}}
	}
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	// check cache
	key := cache.BatchKey(kind.String(), unique)
	if cacheValue, ok := r.store.Get(key); ok {
		if names, ok := cacheValue.(map[int]string); ok {
			r.metrics.CacheHit(kind.String())
			logger.Sugar().Debugf("%s batch of %d served from cache", kind, len(unique))
			return Resolution{Names: maps.Clone(names), Cached: true}
		}
	}
	r.metrics.CacheMiss(kind.String())

	// issue lookups
	res, err := r.lookup(ctx, kind, unique)
	if err != nil {
		r.metrics.StorageFailure("resolve_" + kind.String())
		logger.Sugar().Errorw("batch resolution failed", "kind", kind.String(), "ids", len(unique), "error", err)
		names := make(map[int]string, len(unique))
		for _, id := range unique {
			names[id] = kind.Sentinel()
		}
		return Resolution{Names: names, Err: err}
	}

	r.store.Put(key, maps.Clone(res.Names))
	return res
}

func (r *Resolver) lookup(ctx context.Context, kind Kind, ids []int) (res Resolution, err error) {
	prepared, err := r.session.Prepare(ctx, kind.Query())
	if err != nil {
		return res, errors.Join(errors.New("prepare lookup"), err)
	}
	args := make([][]any, len(ids))
	for idx, id := range ids {
		args[idx] = []any{id}
	}
	results, err := r.session.ExecuteConcurrent(ctx, prepared, args)
	if err != nil {
		return res, errors.Join(errors.New("execute lookups"), err)
	}

	res.Names = make(map[int]string, len(ids))
	var firstErr error
	for idx, id := range ids {
		if idx >= len(results) {
			res.Failed++
			res.Names[id] = kind.Sentinel()
			continue
		}
		result := results[idx]
		if !result.Success {
			res.Failed++
			res.Names[id] = kind.Sentinel()
			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}
		name, ok := firstName(kind, result.Rows)
		if !ok {
			res.Missing++
			res.Names[id] = kind.Sentinel()
			continue
		}
		res.Names[id] = name
	}

	r.metrics.Lookups(kind.String(), len(ids)-res.Missing-res.Failed, res.Missing, res.Failed)
	if res.Failed > 0 {
		logger.Sugar().Errorw("point lookups failed", "kind", kind.String(), "failed", res.Failed, "ids", len(ids), "error", firstErr)
	}
	logger.Sugar().Debugf("%s batch of %d resolved (%d missing, %d failed)", kind, len(ids), res.Missing, res.Failed)
	return res, nil
}

func firstName(kind Kind, rows []database.Row) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	return rows[0].Lower().String(kind.nameColumn())
}
