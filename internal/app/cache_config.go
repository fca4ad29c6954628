package app

import (
	"strings"

	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/database"
)

// Backend returns the normalised cache driver name, defaulting to memory.
func (c CacheConfig) Backend() string {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	if driver == "" {
		return "memory"
	}
	return driver
}

// MemoryConfig converts the cache settings into the in-process store configuration.
func (c CacheConfig) MemoryConfig() cache.MemoryConfig {
	return cache.MemoryConfig{
		MaxEntries:      c.MaxEntries,
		CleanupInterval: c.CleanupInterval,
	}
}

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
		Prefix:   c.Redis.Prefix,
	}
}

// ConnectionConfig converts the database settings into database.Config. A DSN wins over
// host-based settings.
func (d DatabaseConfig) ConnectionConfig() database.Config {
	cfg := database.Config{
		Driver:       strings.ToLower(strings.TrimSpace(d.Driver)),
		Path:         strings.TrimSpace(d.Path),
		DSN:          strings.TrimSpace(d.DSN),
		MaxOpenConns: d.MaxOpenConns,
	}

	var auth DBAuthConfig
	switch cfg.Driver {
	case "postgres", "postgresql":
		auth = d.Postgres
	case "mysql":
		auth = d.MySQL
	default:
		return cfg
	}

	cfg.Host = strings.TrimSpace(auth.Host)
	cfg.Port = auth.Port
	cfg.Name = strings.TrimSpace(auth.Database)
	cfg.User = strings.TrimSpace(auth.Username)
	cfg.Password = auth.Password
	return cfg
}
