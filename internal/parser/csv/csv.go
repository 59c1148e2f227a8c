// Package csv implements a header-aware streaming reader for delimited
// tabular text. It wraps encoding/csv with the small amount of real-world
// hygiene the tool needs: UTF-8 BOM stripping on the first header cell,
// optional per-field space trimming, and lenient quoting for messy exports.
// Header names are preserved exactly; the transformation configuration is
// keyed by them.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures the reader. All fields are optional; zero values select
// sensible defaults.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// LazyQuotes configures csv.Reader.LazyQuotes for inputs with stray
	// quotes.
	LazyQuotes bool

	// FieldsPerRecord overrides the enforced field count: 0 enforces the
	// header width, a negative value allows variable widths, a positive value
	// enforces that exact count.
	FieldsPerRecord int
}

// Reader streams rows from a delimited text source. The header row is
// consumed at construction; every subsequent Next call returns one data row
// aligned to the header.
type Reader struct {
	cr     *csv.Reader
	header []string
	trim   bool
	line   int
}

// NewReader reads the header row from r and returns a Reader positioned at
// the first data row.
func NewReader(r io.Reader, opt Options) (*Reader, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make([]string, len(hdr))
	for i, h := range hdr {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if opt.TrimSpace {
			h = strings.TrimSpace(h)
		}
		header[i] = h
	}

	switch {
	case opt.FieldsPerRecord > 0:
		cr.FieldsPerRecord = opt.FieldsPerRecord
	case opt.FieldsPerRecord < 0:
		cr.FieldsPerRecord = -1
	default:
		cr.FieldsPerRecord = len(header)
	}

	return &Reader{cr: cr, header: header, trim: opt.TrimSpace, line: 1}, nil
}

// Header returns the column names from the header row, in input order.
func (r *Reader) Header() []string { return r.header }

// Line reports the 1-based physical input line where the most recently read
// row starts (or, after an error, the line the parser failed on). Quoted
// fields may span lines, so this is not a row count.
func (r *Reader) Line() int { return r.line }

// Next returns the next data row as a freshly allocated slice, or io.EOF when
// the input is exhausted. Malformed rows are errors, not soft drops: the
// caller aborts the run rather than emit partial output.
func (r *Reader) Next() ([]string, error) {
	rec, err := r.cr.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			r.line = pe.Line
		}
		return nil, fmt.Errorf("csv read: %w", err)
	}
	r.line, _ = r.cr.FieldPos(0)

	row := make([]string, len(rec))
	for i, v := range rec {
		if r.trim {
			v = strings.TrimSpace(v)
		}
		row[i] = v
	}
	return row, nil
}
