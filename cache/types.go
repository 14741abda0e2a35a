package cache

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Key identifies a cached query result.
type Key string

type viewKey struct {
	View string
}

func (k viewKey) String() string {
	return "view:" + k.View
}

type batchKey struct {
	Kind string
	IDs  []int
}

func (k batchKey) String() string {
	var sb strings.Builder
	sb.WriteString("batch:")
	sb.WriteString(k.Kind)
	sb.WriteByte(':')
	for idx, id := range k.IDs {
		if idx > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

// ViewKey is the fixed key of a whole-view query.
func ViewKey(view string) Key {
	return Key(viewKey{View: view}.String())
}

// BatchKey derives the key of a batch resolution from the sorted, deduplicated ids,
// so the order of ids never affects the key.
func BatchKey(kind string, ids []int) Key {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return Key(batchKey{Kind: kind, IDs: sorted}.String())
}

type item struct {
	insertedAt time.Time
	value      any
}

// fresh holds strictly: an entry aged exactly ttl is expired.
func (i *item) fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(i.insertedAt) < ttl
}
