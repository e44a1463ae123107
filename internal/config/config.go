// internal/config/config.go
//
// Process configuration read from the environment (and .env, loaded by main).
// Every setting has a default so the server starts with no environment at all.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	LogLevel       string
	ClientOrigin   string
	DBPath         string // empty disables result persistence
	RoomTTL        time.Duration
	RoomCapacity   int
	ChainTimeout   time.Duration
	RequestTimeout time.Duration
}

// Load reads the configuration. Malformed numbers or durations are errors
// rather than silently falling back to defaults.
func Load() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DBPath:       os.Getenv("DB_PATH"),
	}
	var err error
	if c.RoomTTL, err = duration("ROOM_TTL", 2*time.Hour); err != nil {
		return c, err
	}
	if c.ChainTimeout, err = duration("CHAIN_TIMEOUT", 5*time.Second); err != nil {
		return c, err
	}
	if c.RequestTimeout, err = duration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return c, err
	}
	if c.RoomCapacity, err = integer("ROOM_CAPACITY", 1024); err != nil {
		return c, err
	}
	return c, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", k, v)
	}
	return d, nil
}

func integer(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid number %q", k, v)
	}
	return n, nil
}
