package config

import "fmt"

// Cache backend names.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// CacheConfig controls both cache tiers: the durable raw-week cache and the
// in-memory result cache.
type CacheConfig struct {
	// Backend selects the durable store: "file" or "redis".
	Backend string `json:"backend"`
	// Dir is the directory of the file backend.
	Dir string `json:"dir"`
	// RedisAddr, RedisPassword and RedisDB configure the redis backend.
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	// FutureTTLHours is how long raw weeks for future dates stay cached.
	// Past weeks never expire.
	FutureTTLHours int `json:"future_ttl_hours"`
	// ResultTTLMinutes bounds entries in the in-memory result cache.
	ResultTTLMinutes int `json:"result_ttl_minutes"`
	// ResultCapacity bounds the result cache size (LRU eviction).
	ResultCapacity int `json:"result_capacity"`
}

// SetDefaults applies sane defaults.
func (c *CacheConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = CacheBackendFile
	}
	if c.Dir == "" {
		c.Dir = "cache"
	}
	if c.FutureTTLHours <= 0 {
		c.FutureTTLHours = 6
	}
	if c.ResultTTLMinutes <= 0 {
		c.ResultTTLMinutes = 5
	}
	if c.ResultCapacity <= 0 {
		c.ResultCapacity = 256
	}
}

// Validate checks mandatory fields.
func (c CacheConfig) Validate() error {
	switch c.Backend {
	case CacheBackendFile:
		if c.Dir == "" {
			return fmt.Errorf("cache dir is required")
		}
	case CacheBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required")
		}
	default:
		return fmt.Errorf("unknown cache backend %s", c.Backend)
	}
	return nil
}
