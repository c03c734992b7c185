package config

import (
	"fmt"
	"strings"
)

// Validate checks cross-field rules. Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}
	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", l.Format)
	}
	return nil
}

func (d *DictionaryConfig) validate() error {
	switch d.Source {
	case SourceBuiltin:
		if !d.Builtins {
			return fmt.Errorf("builtin source with builtins disabled leaves no terms")
		}
	case SourceFile, SourceSQLite:
		if d.Path == "" {
			return fmt.Errorf("%s source requires path", d.Source)
		}
	case SourcePostgres:
		if d.DSN == "" {
			return fmt.Errorf("postgres source requires dsn")
		}
	default:
		return fmt.Errorf("unknown source %q", d.Source)
	}
	if d.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", d.MaxRetries)
	}
	if d.RetryBaseDelay < 0 || d.RetryMaxDelay < d.RetryBaseDelay {
		return fmt.Errorf("retry delays must satisfy 0 <= base <= max (got %s, %s)", d.RetryBaseDelay, d.RetryMaxDelay)
	}
	return nil
}

func (c *CacheConfig) validate() error {
	switch c.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis backend requires redis_url")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be >= 0 (got %s)", c.TTL)
	}
	return nil
}

func (s *ServerConfig) validate() error {
	if s.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be > 0 (got %d)", s.MaxBodyBytes)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %s)", s.RequestTimeout)
	}
	if s.RateLimitRPM < 0 || s.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must be >= 0")
	}
	return nil
}
