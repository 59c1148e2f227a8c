// Package sqlite implements a SQLite-backed sink using database/sql. The
// destination is still a local file, which keeps the tool inside its
// files-only contract while allowing transformed tables to be queried
// directly. Batches are written as transactional prepared INSERTs; SQLite has
// no bulk-load API, but transactions keep throughput acceptable for the
// volumes this tool handles.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"csvtransform/internal/sink"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo
)

func init() {
	sink.Register("sqlite", New)
}

// Sink is a SQLite-backed implementation of sink.Sink.
type Sink struct {
	db      *sql.DB
	cfg     sink.Config
	created bool
}

// New opens a SQLite database for cfg.DSN. The DSN is passed straight to
// database/sql, e.g. "out.db" or "file:out.db?cache=shared".
func New(ctx context.Context, cfg sink.Config) (sink.Sink, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// Ping with a short timeout to fail fast on unwritable paths.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Sink{db: db, cfg: cfg}, nil
}

// WriteRows inserts one batch inside a single transaction. On the first call
// it optionally creates the destination table from the column list; every
// column is TEXT, since the engine serializes all values (sequential ids
// included) as strings.
func (s *Sink) WriteRows(ctx context.Context, columns []string, rows [][]string) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if s.cfg.AutoCreateTable && !s.created {
		ddl, err := buildCreateTableSQL(s.cfg.Table, columns)
		if err != nil {
			return 0, err
		}
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return 0, fmt.Errorf("sqlite: create table: %w", err)
		}
		s.created = true
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.cfg.Table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	args := make([]any, len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: row length %d != columns length %d", len(row), len(columns))
		}
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Close releases the database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}

// buildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for the destination.
// All columns are TEXT; identifiers are double-quoted.
func buildCreateTableSQL(table string, columns []string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("sqlite ddl: table name must not be empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("sqlite ddl: at least one column is required")
	}

	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			return "", fmt.Errorf("sqlite ddl: column with empty name in table %s", table)
		}
		cols = append(cols, fmt.Sprintf("%s TEXT", quoteIdent(c)))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteIdent(table),
		strings.Join(cols, ",\n  "),
	), nil
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
