package csv

import (
	"io"
	"reflect"
	"strings"
	"testing"
)

func readAll(t *testing.T, r *Reader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		rows = append(rows, row)
	}
}

func TestReader_HeaderAndRows(t *testing.T) {
	in := "id,name,date\nUUID-123,John Doe,2025-Mar-01\nUUID-456,Jane Smith,2024-Dec-31\n"
	r, err := NewReader(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if !reflect.DeepEqual(r.Header(), []string{"id", "name", "date"}) {
		t.Fatalf("Header() = %v", r.Header())
	}
	rows := readAll(t, r)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"UUID-123", "John Doe", "2025-Mar-01"}) {
		t.Fatalf("row 0 = %v", rows[0])
	}
}

func TestReader_StripsBOM(t *testing.T) {
	in := "\uFEFFid,name\n1,a\n"
	r, err := NewReader(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Header()[0] != "id" {
		t.Fatalf("first header = %q; BOM not stripped", r.Header()[0])
	}
}

func TestReader_QuotedFields(t *testing.T) {
	in := "name,notes\n\"Doe, John\",\"line1\nline2\"\n"
	r, err := NewReader(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	rows := readAll(t, r)
	if rows[0][0] != "Doe, John" {
		t.Fatalf("embedded delimiter mangled: %q", rows[0][0])
	}
	if rows[0][1] != "line1\nline2" {
		t.Fatalf("embedded newline mangled: %q", rows[0][1])
	}
}

func TestReader_TrimSpace(t *testing.T) {
	in := " id , name \n a , b \n"
	r, err := NewReader(strings.NewReader(in), Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if !reflect.DeepEqual(r.Header(), []string{"id", "name"}) {
		t.Fatalf("Header() = %v", r.Header())
	}
	rows := readAll(t, r)
	if !reflect.DeepEqual(rows[0], []string{"a", "b"}) {
		t.Fatalf("row = %v", rows[0])
	}
}

func TestReader_SemicolonDelimiter(t *testing.T) {
	in := "a;b\n1;2\n"
	r, err := NewReader(strings.NewReader(in), Options{Comma: ';'})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	rows := readAll(t, r)
	if !reflect.DeepEqual(rows[0], []string{"1", "2"}) {
		t.Fatalf("row = %v", rows[0])
	}
}

/*
TestReader_WidthMismatchIsError verifies the hard-fail contract: a row whose
field count differs from the header is an error, not a silent drop. Partial
output from malformed input is worse than no output here.
*/
func TestReader_WidthMismatchIsError(t *testing.T) {
	in := "a,b\n1,2,3\n"
	r, err := NewReader(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.Next(); err == nil {
		t.Fatalf("wide row accepted")
	}
}

/*
TestReader_LineTracksPhysicalLines verifies Line() reports where a row starts
in the file, not how many rows were read: a quoted field spanning two lines
shifts every later row's position.
*/
func TestReader_LineTracksPhysicalLines(t *testing.T) {
	in := "name,notes\n\"a\",\"line1\nline2\"\nx,y\n"
	r, err := NewReader(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r.Line() != 2 {
		t.Fatalf("first row Line() = %d, want 2", r.Line())
	}

	// The second row starts on line 4: the first row's quoted field consumed
	// lines 2-3.
	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r.Line() != 4 {
		t.Fatalf("second row Line() = %d, want 4", r.Line())
	}
}

func TestReader_LineOnParseError(t *testing.T) {
	in := "a,b\nok,row\nbad,\"x\"y\n"
	r, err := NewReader(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := r.Next(); err == nil {
		t.Fatalf("malformed row accepted")
	}
	if r.Line() != 3 {
		t.Fatalf("Line() after parse error = %d, want 3", r.Line())
	}
}

func TestReader_RowsAreIndependent(t *testing.T) {
	// ReuseRecord is enabled internally; returned rows must still be fresh.
	in := "a,b\n1,2\n3,4\n"
	r, err := NewReader(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !reflect.DeepEqual(first, []string{"1", "2"}) {
		t.Fatalf("first row mutated by later read: %v", first)
	}
}
