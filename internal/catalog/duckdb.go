// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // registers the duckdb database/sql driver

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// ErrNoDuckDBSource is returned when neither a table nor a CSV path is set.
var ErrNoDuckDBSource = errors.New("catalog: duckdb source needs a table or a csv path")

// tableIdentifier matches a plain or schema-qualified table name.
var tableIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// DuckDBLoader reads the catalog through DuckDB, either from a table in a
// database file or from a CSV via read_csv_auto.
type DuckDBLoader struct {
	database string
	csvPath  string
	table    string
}

// NewDuckDBLoader returns a loader. database may be empty for an in-memory
// instance; table takes precedence over csvPath.
func NewDuckDBLoader(database, csvPath, table string) (*DuckDBLoader, error) {
	if table == "" && csvPath == "" {
		return nil, ErrNoDuckDBSource
	}
	if table != "" && !tableIdentifier.MatchString(table) {
		return nil, fmt.Errorf("catalog: invalid table name %q", table)
	}
	return &DuckDBLoader{database: database, csvPath: csvPath, table: table}, nil
}

// query builds the SELECT for the configured source. Columns are cast so
// that read_csv_auto type inference cannot change the scan types.
func (l *DuckDBLoader) query() string {
	from := l.table
	if from == "" {
		from = fmt.Sprintf("read_csv_auto(%s, header = true, all_varchar = true)", quoteLiteral(l.csvPath))
	}
	return fmt.Sprintf(
		`SELECT CAST(movieId AS BIGINT), CAST(title AS VARCHAR), CAST(genres AS VARCHAR) FROM %s`,
		from,
	)
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// dsn disables extension auto-install so a load never reaches the network,
// and keeps insertion order so rows come back in file order.
func (l *DuckDBLoader) dsn() string {
	params := "autoinstall_known_extensions=false&autoload_known_extensions=false&preserve_insertion_order=true"
	if l.database != "" && l.table != "" {
		params = "access_mode=read_only&" + params
	}
	return l.database + "?" + params
}

// Load runs the query and returns rows in source order.
func (l *DuckDBLoader) Load(ctx context.Context) ([]recommend.Item, error) {
	conn, err := sql.Open("duckdb", l.dsn())
	if err != nil {
		return nil, fmt.Errorf("catalog: open duckdb: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close DuckDB catalog connection")
		}
	}()

	rows, err := conn.QueryContext(ctx, l.query())
	if err != nil {
		return nil, fmt.Errorf("catalog: query duckdb: %w", err)
	}
	defer rows.Close()

	var (
		items []recommend.Item
		row   int
	)
	for rows.Next() {
		row++
		var (
			id     sql.NullInt64
			title  sql.NullString
			genres sql.NullString
		)
		if err := rows.Scan(&id, &title, &genres); err != nil {
			return nil, fmt.Errorf("catalog: row %d: %w", row, err)
		}
		if !id.Valid {
			return nil, fmt.Errorf("catalog: row %d: missing movieId", row)
		}
		name := strings.TrimSpace(title.String)
		if name == "" {
			return nil, fmt.Errorf("catalog: row %d: empty title", row)
		}
		items = append(items, recommend.Item{
			ID:   int(id.Int64),
			Name: name,
			Tags: ParseGenres(genres.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read duckdb rows: %w", err)
	}
	return items, nil
}
