package config

import "time"

const (
	CACHE_DURATION = 5 * time.Minute

	FETCH_SIZE_DEFAULT     = 1_000
	FETCH_SIZE_ROLLUP      = 3_000
	FETCH_SIZE_TOP_SONGS   = 2_000
	FETCH_SIZE_DAILY_TREND = 5_000

	STORAGE_TIMEOUT    = 30 * time.Second
	LOOKUP_CONCURRENCY = 64
	CASSANDRA_PROTOCOL = 4
	CASSANDRA_KEYSPACE = "spotify_test"

	DEFAULT_HTTP_ADDRESS = ":7500"
	SHUTDOWN_TIMEOUT     = 10 * time.Second

	// finished warm tasks kept for inspection
	WARM_TASK_HISTORY = 64
)
