package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"csvtransform/internal/sink"
)

func openTestSink(t *testing.T) (sink.Sink, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "out.db")
	s, err := New(context.Background(), sink.Config{
		Kind:            "sqlite",
		DSN:             dsn,
		Table:           "users",
		AutoCreateTable: true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, dsn
}

func TestSink_RoundTrip(t *testing.T) {
	s, dsn := openTestSink(t)
	ctx := context.Background()

	columns := []string{"id", "name", "date"}
	rows := [][]string{
		{"1", "Mary Smith", "2025-03-01"},
		{"2", "John Jones", "2024-12-31"},
	}
	n, err := s.WriteRows(ctx, columns, rows)
	if err != nil {
		t.Fatalf("WriteRows: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted %d rows; want 2", n)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "users"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("table has %d rows; want 2", count)
	}

	var name string
	if err := db.QueryRow(`SELECT "name" FROM "users" WHERE "id" = '1'`).Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "Mary Smith" {
		t.Fatalf("name = %q", name)
	}
}

func TestSink_MultipleBatches(t *testing.T) {
	s, dsn := openTestSink(t)
	ctx := context.Background()
	columns := []string{"id"}

	for _, batch := range [][][]string{{{"1"}, {"2"}}, {{"3"}}} {
		if _, err := s.WriteRows(ctx, columns, batch); err != nil {
			t.Fatalf("WriteRows: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "users"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("table has %d rows; want 3", count)
	}
}

func TestSink_RejectsBadConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, sink.Config{Table: "t"}); err == nil {
		t.Fatalf("empty DSN accepted")
	}
	if _, err := New(ctx, sink.Config{DSN: "x.db"}); err == nil {
		t.Fatalf("empty table accepted")
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	got, err := buildCreateTableSQL("users", []string{"id", "full name"})
	if err != nil {
		t.Fatalf("buildCreateTableSQL: %v", err)
	}
	for _, want := range []string{`CREATE TABLE IF NOT EXISTS "users"`, `"id" TEXT`, `"full name" TEXT`} {
		if !strings.Contains(got, want) {
			t.Fatalf("ddl %q missing %q", got, want)
		}
	}

	if _, err := buildCreateTableSQL("", []string{"a"}); err == nil {
		t.Fatalf("empty table accepted")
	}
	if _, err := buildCreateTableSQL("t", nil); err == nil {
		t.Fatalf("empty columns accepted")
	}
}
