package config

import (
	"encoding/json"
	"errors"
	"os"
)

// CreateSample creates a sample configuration file.
func CreateSample(path string) error {
	enabled := true
	sample := Config{
		Server: ConfigServer{
			HttpAddress: DEFAULT_HTTP_ADDRESS,
		},
		Storage: Storage{
			Driver:          StorageDriver_Cassandra,
			Hosts:           []string{"127.0.0.1"},
			Keyspace:        CASSANDRA_KEYSPACE,
			ProtocolVersion: CASSANDRA_PROTOCOL,
			Compression:     true,
			Timeout:         Duration(STORAGE_TIMEOUT),
			FetchSize:       FETCH_SIZE_DEFAULT,
			Concurrency:     LOOKUP_CONCURRENCY,
		},
		Cache: ConfigCache{
			TTL: Duration(CACHE_DURATION),
		},
		Warm: ConfigWarm{
			Enabled: &enabled,
			Views:   []string{"genre_month", "artist_month", "city_genre"},
		},
		LogLevel: LogLevelInfo,
	}
	raw, err := json.MarshalIndent(sample, "", "    ")
	if err != nil {
		return errors.Join(errors.New("could not marshal sample config"), err)
	}
	err = os.WriteFile(path, raw, 0600)
	if err != nil {
		return errors.Join(errors.New("could not write sample config file"), err)
	}
	return nil
}
