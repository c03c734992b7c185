// Package config loads codelai settings from an optional YAML file and
// CODELAI_* environment variables.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Cache      CacheConfig      `yaml:"cache"`
	Server     ServerConfig     `yaml:"server"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"CODELAI_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"CODELAI_LOG_FORMAT" env-default:"text"`
}

// Dictionary source kinds.
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// DictionaryConfig selects and tunes the term source.
type DictionaryConfig struct {
	Source         string        `yaml:"source"           env:"CODELAI_DICT_SOURCE"           env-default:"builtin"`
	Path           string        `yaml:"path"             env:"CODELAI_DICT_PATH"`
	DSN            string        `yaml:"dsn"              env:"CODELAI_DICT_DSN"`
	Table          string        `yaml:"table"            env:"CODELAI_DICT_TABLE"            env-default:"terms"`
	Builtins       bool          `yaml:"builtins"         env:"CODELAI_DICT_BUILTINS"         env-default:"true"`
	MaxRetries     int           `yaml:"max_retries"      env:"CODELAI_DICT_MAX_RETRIES"      env-default:"3"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" env:"CODELAI_DICT_RETRY_BASE_DELAY" env-default:"200ms"`
	RetryMaxDelay  time.Duration `yaml:"retry_max_delay"  env:"CODELAI_DICT_RETRY_MAX_DELAY"  env-default:"5s"`
	MaxConns       int32         `yaml:"max_conns"        env:"CODELAI_DICT_MAX_CONNS"        env-default:"4"`
}

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend   string        `yaml:"backend"    env:"CODELAI_CACHE_BACKEND"    env-default:"memory"`
	TTL       time.Duration `yaml:"ttl"        env:"CODELAI_CACHE_TTL"        env-default:"1h"`
	RedisURL  string        `yaml:"redis_url"  env:"CODELAI_CACHE_REDIS_URL"`
	KeyPrefix string        `yaml:"key_prefix" env:"CODELAI_CACHE_KEY_PREFIX" env-default:"codelai:"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"CODELAI_SERVER_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"CODELAI_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"CODELAI_SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"CODELAI_SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"CODELAI_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"CODELAI_SERVER_REQUEST_TIMEOUT"  env-default:"15s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"CODELAI_SERVER_MAX_BODY_BYTES"   env-default:"1048576"`

	// Per-client token bucket; a zero rate disables limiting.
	RateLimitRPM   int `yaml:"rate_limit_rpm"   env:"CODELAI_SERVER_RATE_LIMIT_RPM"   env-default:"600"`
	RateLimitBurst int `yaml:"rate_limit_burst" env:"CODELAI_SERVER_RATE_LIMIT_BURST" env-default:"60"`
}
