package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ParseConfig parses the raw JSON configuration and fills in defaults.
func ParseConfig(raw []byte) (config Config, err error) {
	err = json.Unmarshal(raw, &config)
	if err != nil {
		return config, fmt.Errorf("unmarshal config: %v", err)
	}
	config.setDefaults()
	if err = config.Storage.validate(); err != nil {
		return config, errors.Join(errors.New("invalid storage config"), err)
	}
	return config, nil
}

type Config struct {
	Server   ConfigServer `json:"server"`
	Storage  Storage      `json:"storage"`
	Cache    ConfigCache  `json:"cache"`
	Warm     ConfigWarm   `json:"warm"`
	LogLevel LogLevel     `json:"log_level"`
}

type ConfigServer struct {
	HttpAddress string `json:"http_address"`
}

type ConfigCache struct {
	TTL          Duration `json:"ttl"`
	SingleFlight bool     `json:"single_flight"`
}

type ConfigWarm struct {
	Enabled *bool    `json:"enabled,omitempty"`
	Views   []string `json:"views,omitempty"`
}

// IsEnabled reports whether startup warming should run, defaulting to true.
func (w ConfigWarm) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

func (c *Config) setDefaults() {
	if c.Server.HttpAddress == "" {
		c.Server.HttpAddress = DEFAULT_HTTP_ADDRESS
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = Duration(CACHE_DURATION)
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	c.Storage.setDefaults()
}

// Duration is a time.Duration encoded as a Go duration string ("5m", "30s").
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("parse duration %q: %v", text, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds: %s", string(data))
	}
	*d = Duration(seconds * float64(time.Second))
	return nil
}

// SingleOrSlice allows for a configuration field to be either a single value or a slice of values.
type SingleOrSlice[T any] []T

// UnmarshalJSON handles both single values and slices for the field.
func (s *SingleOrSlice[T]) UnmarshalJSON(data []byte) error {
	var single T
	if err := json.Unmarshal(data, &single); err == nil {
		*s = SingleOrSlice[T]{single}
		return nil
	}
	var slice []T
	if err := json.Unmarshal(data, &slice); err != nil {
		return err
	}
	*s = slice
	return nil
}

// MarshalJSON ensures that the field is marshaled correctly whether it's a single value or a slice.
func (s SingleOrSlice[T]) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]T(s))
}
