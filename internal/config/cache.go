package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the catway read cache.  When Enabled is
// false or no Redis client is configured, caching is disabled.  Prefix
// namespaces the keys so that writes can invalidate every cached read.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  All methods are upper-cased.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      map[string]bool{},
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "marina:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    for _, m := range envList("CACHE_METHODS", "GET") {
        cfg.Methods[strings.ToUpper(m)] = true
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return cfg
}
