package cache

import (
	"context"
	"fmt"
)

// Fetch returns the value cached under key, or runs fetch and caches its result.
// A failed fetch is never cached. With single flight enabled, concurrent misses
// for the same key share one fetch and its outcome; the shared fetch runs on a
// context detached from the caller, and each caller stops waiting when its own
// ctx is done.
func Fetch[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (value T, hit bool, err error) {
	// return cache value if valid
	if value, ok := lookup[T](s, key); ok {
		return value, true, nil
	}
	if !s.singleflight {
		value, err = load(ctx, s, key, fetch)
		return value, false, err
	}
	return fetchShared(ctx, s, key, fetch)
}

type shared[T any] struct {
	value T
	hit   bool
}

func fetchShared[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (value T, hit bool, err error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(string(key), func() (any, error) {
		// another caller may have filled the key while we waited
		if value, ok := lookup[T](s, key); ok {
			return shared[T]{value: value, hit: true}, nil
		}
		value, err := load(detached, s, key, fetch)
		if err != nil {
			return nil, err
		}
		return shared[T]{value: value}, nil
	})

	select {
	case <-ctx.Done():
		return value, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return value, false, res.Err
		}
		out, ok := res.Val.(shared[T])
		if !ok {
			return value, false, fmt.Errorf("failed to cast singleflight response value to %T", value)
		}
		return out.value, out.hit, nil
	}
}

func load[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	values, err := fetch(ctx)
	if err != nil {
		return values, err
	}
	s.Put(key, values)
	return values, nil
}

func lookup[T any](s *Store, key Key) (value T, ok bool) {
	cacheValue, found := s.Get(key)
	if !found {
		return value, false
	}
	value, ok = cacheValue.(T)
	return value, ok
}
