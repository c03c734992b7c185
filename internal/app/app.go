// Package app wires configuration into a ready-to-use translator.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/cache"
	"github.com/ZaguanLabs/codelai/internal/config"
	"github.com/ZaguanLabs/codelai/processor"
	"github.com/ZaguanLabs/codelai/termsource"
)

// App holds the assembled components and the resources they own.
type App struct {
	Translator   *codelai.Translator
	Dictionaries *codelai.CachedDictionary
	Cache        cache.Cache // nil when caching is disabled

	closers []func() error
}

// Build assembles the term source, dictionary provider, result cache and
// translator described by cfg. Call Close to release connections.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	source, err := a.termSource(ctx, cfg.Dictionary, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	dictOpts := []codelai.CachedDictionaryOption{codelai.WithDictionaryLogger(logger)}
	if !cfg.Dictionary.Builtins {
		dictOpts = append(dictOpts, codelai.WithDefaults(nil))
	}
	a.Dictionaries = codelai.NewCachedDictionary(source, dictOpts...)

	a.Cache, err = a.resultCache(ctx, cfg.Cache)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []codelai.TranslatorOption{codelai.WithLogger(logger)}
	for _, rw := range processor.Rewriters() {
		opts = append(opts, codelai.WithRewriter(rw))
	}
	if a.Cache != nil {
		opts = append(opts, codelai.WithCache(a.Cache))
	}
	a.Translator = codelai.NewTranslator(a.Dictionaries, opts...)

	logger.DebugContext(ctx, "translator ready",
		slog.String("source", cfg.Dictionary.Source),
		slog.String("cache", cfg.Cache.Backend),
		slog.Bool("builtins", cfg.Dictionary.Builtins),
	)
	return a, nil
}

func (a *App) termSource(ctx context.Context, cfg config.DictionaryConfig, logger *slog.Logger) (codelai.TermSource, error) {
	var source codelai.TermSource

	switch cfg.Source {
	case config.SourceBuiltin:
		return codelai.StaticTerms(nil), nil

	case config.SourceFile:
		source = termsource.NewFileSource(cfg.Path)

	case config.SourcePostgres:
		pool, err := termsource.NewPool(ctx, termsource.PostgresConfig{DSN: cfg.DSN, MaxConns: cfg.MaxConns})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })

		source, err = termsource.NewPostgresSource(pool, cfg.Table)
		if err != nil {
			return nil, err
		}

	case config.SourceSQLite:
		db, err := termsource.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		source, err = termsource.NewSQLiteSource(db, cfg.Table)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown dictionary source %q", cfg.Source)
	}

	retry := codelai.RetryConfig{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		MaxDelay:   cfg.RetryMaxDelay,
	}
	return codelai.NewRetryingSource(source, retry, logger), nil
}

func (a *App) resultCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		return cache.NewInMemoryCache(cfg.TTL), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:       cfg.RedisURL,
			TTL:       cfg.TTL,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Close releases every connection opened by Build, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
