// Package termsource provides the upstream term collections a dictionary is
// built from: YAML or JSON files, PostgreSQL tables and SQLite tables.
//
// Every source returns records in collection order and reports failures as
// *codelai.SourceError so the retry wrapper can tell transient errors apart.
package termsource

import (
	"fmt"
	"regexp"

	"github.com/ZaguanLabs/codelai"
)

// DefaultTable is the table read by the database sources when none is configured.
const DefaultTable = "terms"

// identifier matches a plain or schema-qualified SQL table name.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func validateTable(table string) (string, error) {
	if table == "" {
		return DefaultTable, nil
	}
	if !identifier.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Verify implementations
var (
	_ codelai.TermSource = (*FileSource)(nil)
	_ codelai.TermSource = (*PostgresSource)(nil)
	_ codelai.TermSource = (*SQLiteSource)(nil)
)
