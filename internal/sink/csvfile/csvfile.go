// Package csvfile implements the primary CSV file sink. The header row comes
// from the resolved output column order and is written as soon as it is
// known, so an input with no data rows still produces a header-only file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"csvtransform/internal/sink"
)

func init() {
	sink.Register("csv", func(_ context.Context, cfg sink.Config) (sink.Sink, error) {
		return New(cfg)
	})
}

// Sink writes rows to a CSV file through a buffered csv.Writer.
type Sink struct {
	f           *os.File
	w           *csv.Writer
	wroteHeader bool
}

// New creates (or truncates) the destination file. When cfg.Columns is set
// the header row is written immediately; otherwise it is deferred to the
// first WriteRows call.
func New(cfg sink.Config) (*Sink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("csv sink: path must not be empty")
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", cfg.Path, err)
	}
	s := &Sink{f: f, w: csv.NewWriter(f)}
	if len(cfg.Columns) > 0 {
		if err := s.w.Write(cfg.Columns); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		s.wroteHeader = true
	}
	return s, nil
}

// WriteRows writes one batch, emitting the header row first if New did not
// already. Each row must be aligned to columns.
func (s *Sink) WriteRows(ctx context.Context, columns []string, rows [][]string) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	if !s.wroteHeader {
		if err := s.w.Write(columns); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
		s.wroteHeader = true
	}

	var n int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return n, fmt.Errorf("row has %d fields, header has %d columns", len(row), len(columns))
		}
		if err := s.w.Write(row); err != nil {
			return n, fmt.Errorf("write row: %w", err)
		}
		n++
	}
	return n, nil
}

// Close flushes buffered output and closes the file. A flush error is
// reported so a truncated destination never passes silently.
func (s *Sink) Close() error {
	s.w.Flush()
	flushErr := s.w.Error()
	closeErr := s.f.Close()
	if flushErr != nil {
		return fmt.Errorf("flush %s: %w", s.f.Name(), flushErr)
	}
	return closeErr
}
