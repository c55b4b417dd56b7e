package api

import (
	"time"

	"github.com/FocuswithJustin/ChordShift/core/transpose"
)

// Version is reported by GET / and GET /health.
const Version = "0.3.0"

// Config holds server configuration.
type Config struct {
	Port           int
	Mode           transpose.Mode // default mode when a request names none
	CacheTTL       time.Duration  // 0 disables the result cache
	CacheSize      int            // maximum cached results (0 = 1024)
	MaxBodyBytes   int64          // request body limit (0 = 1 MiB)
	AllowedOrigins []string       // CORS and WebSocket origins (empty = allow all)
}

const (
	defaultCacheSize    = 1024
	defaultMaxBodyBytes = 1 << 20
)

func (c Config) withDefaults() Config {
	if c.CacheSize <= 0 {
		c.CacheSize = defaultCacheSize
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	return c
}
