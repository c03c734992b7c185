package termsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ZaguanLabs/codelai"
	"github.com/mattn/go-sqlite3"
)

// OpenSQLite opens the existing database at path read-only.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// SQLiteSource reads terms from a table with columns
// (id, term, translation, aliases), ordered by id. Aliases are stored as a
// JSON array of strings and may be NULL.
type SQLiteSource struct {
	db    *sql.DB
	query string
}

// NewSQLiteSource creates a source reading table from db.
func NewSQLiteSource(db *sql.DB, table string) (*SQLiteSource, error) {
	table, err := validateTable(table)
	if err != nil {
		return nil, err
	}

	query, _, err := sq.Select("term", "translation", "aliases").
		From(table).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building term query: %w", err)
	}

	return &SQLiteSource{db: db, query: query}, nil
}

// Terms reads every row of the table.
func (s *SQLiteSource) Terms(ctx context.Context) ([]codelai.TermRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, s.wrap("querying terms", err)
	}
	defer rows.Close()

	records := []codelai.TermRecord{}
	for rows.Next() {
		var rec codelai.TermRecord
		var aliases sql.NullString
		if err := rows.Scan(&rec.Term, &rec.Translation, &aliases); err != nil {
			return nil, s.wrap("reading terms", err)
		}
		if aliases.Valid && aliases.String != "" {
			if err := json.Unmarshal([]byte(aliases.String), &rec.Aliases); err != nil {
				return nil, s.wrap(fmt.Sprintf("decoding aliases of %q", rec.Term), err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("reading terms", err)
	}
	return records, nil
}

func (s *SQLiteSource) wrap(msg string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var sqliteErr sqlite3.Error
	retryable := errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked)
	return &codelai.SourceError{
		Source:    "sqlite",
		Message:   msg,
		Cause:     err,
		Retryable: retryable,
	}
}
