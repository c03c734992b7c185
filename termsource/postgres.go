package termsource

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ZaguanLabs/codelai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgxpool.Pool the PostgreSQL source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresConfig holds the connection pool settings.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// NewPool creates a PostgreSQL connection pool and pings it.
func NewPool(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// PostgresSource reads terms from a table with columns
// (id, term, translation, aliases text[]), ordered by id.
type PostgresSource struct {
	db    Querier
	query string
}

// NewPostgresSource creates a source reading table through db.
func NewPostgresSource(db Querier, table string) (*PostgresSource, error) {
	table, err := validateTable(table)
	if err != nil {
		return nil, err
	}

	query, _, err := sq.Select("term", "translation", "aliases").
		From(table).
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building term query: %w", err)
	}

	return &PostgresSource{db: db, query: query}, nil
}

// Terms reads every row of the table.
func (s *PostgresSource) Terms(ctx context.Context) ([]codelai.TermRecord, error) {
	rows, err := s.db.Query(ctx, s.query)
	if err != nil {
		return nil, s.wrap("querying terms", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (codelai.TermRecord, error) {
		var rec codelai.TermRecord
		var aliases []string
		if err := row.Scan(&rec.Term, &rec.Translation, &aliases); err != nil {
			return rec, err
		}
		rec.Aliases = aliases
		return rec, nil
	})
	if err != nil {
		return nil, s.wrap("reading terms", err)
	}
	if records == nil {
		records = []codelai.TermRecord{}
	}
	return records, nil
}

func (s *PostgresSource) wrap(msg string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &codelai.SourceError{
		Source:    "postgres",
		Message:   msg,
		Cause:     err,
		Retryable: retryablePg(err),
	}
}

// retryablePg reports connection failures, timeouts and serialization
// conflicts.
func retryablePg(err error) bool {
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08": // connection_exception
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization_failure, deadlock_detected
			return true
		case pgErr.Code == "57P03": // cannot_connect_now
			return true
		}
	}
	return false
}
