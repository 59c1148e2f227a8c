// Package prompt walks a user through building a per-column transformation
// selection on a terminal. It is deliberately dumb line-oriented I/O so it can
// be scripted in tests and piped in automation.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"csvtransform/internal/transform"
)

// Selection is the result of an interactive session, shaped to drop straight
// into a pipeline's transform section.
type Selection struct {
	// Columns maps column name -> chosen transformation kind. Columns left
	// unchanged are absent.
	Columns map[string]string

	// ColumnOrder is the requested output order, or nil to keep the input
	// order.
	ColumnOrder []string
}

// Session reads answers from one reader and writes questions to one writer.
type Session struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewSession wires a session to the given streams, typically os.Stdin and
// os.Stdout.
func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: bufio.NewScanner(in), out: out}
}

// Run asks for a transformation per column and optionally a new column order.
// Invalid answers re-ask; a closed input stream aborts with an error.
func (s *Session) Run(columns []string) (Selection, error) {
	sel := Selection{Columns: map[string]string{}}
	if len(columns) == 0 {
		return sel, fmt.Errorf("prompt: no columns to configure")
	}

	kinds := transform.Kinds()
	fmt.Fprintf(s.out, "Configuring %d columns. Pick a transformation per column (empty = 0).\n", len(columns))
	for _, col := range columns {
		choice, err := s.askKind(col, kinds)
		if err != nil {
			return Selection{}, err
		}
		if choice != transform.KindNone {
			sel.Columns[col] = string(choice)
		}
	}

	reorder, err := s.askYesNo("Reorder columns? (y/n) ")
	if err != nil {
		return Selection{}, err
	}
	if reorder {
		order, err := s.askOrder(columns)
		if err != nil {
			return Selection{}, err
		}
		sel.ColumnOrder = order
	}
	return sel, nil
}

func (s *Session) askKind(column string, kinds []transform.Kind) (transform.Kind, error) {
	fmt.Fprintf(s.out, "\ncolumn %q:\n", column)
	fmt.Fprintln(s.out, "  0) leave unchanged")
	for i, k := range kinds {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, k)
	}
	for {
		line, err := s.readLine("> ")
		if err != nil {
			return transform.KindNone, err
		}
		if line == "" {
			return transform.KindNone, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 0 || n > len(kinds) {
			fmt.Fprintf(s.out, "invalid choice %q, enter 0-%d\n", line, len(kinds))
			continue
		}
		if n == 0 {
			return transform.KindNone, nil
		}
		return kinds[n-1], nil
	}
}

func (s *Session) askYesNo(question string) (bool, error) {
	for {
		line, err := s.readLine(question)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "", "n", "no":
			return false, nil
		case "y", "yes":
			return true, nil
		}
		fmt.Fprintf(s.out, "answer y or n, got %q\n", line)
	}
}

func (s *Session) askOrder(columns []string) ([]string, error) {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	fmt.Fprintf(s.out, "current order: %s\n", strings.Join(columns, ", "))
	for {
		line, err := s.readLine("enter comma-separated column names: ")
		if err != nil {
			return nil, err
		}
		order, problem := parseOrder(line, known)
		if problem != "" {
			fmt.Fprintln(s.out, problem)
			continue
		}
		return order, nil
	}
}

// parseOrder splits and validates a comma-separated order line. It returns a
// human-readable problem string instead of an error because the caller
// re-asks rather than aborts.
func parseOrder(line string, known map[string]bool) ([]string, string) {
	var order []string
	seen := map[string]bool{}
	for _, part := range strings.Split(line, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, fmt.Sprintf("unknown column %q", name)
		}
		if seen[name] {
			return nil, fmt.Sprintf("duplicate column %q", name)
		}
		seen[name] = true
		order = append(order, name)
	}
	if len(order) == 0 {
		return nil, "enter at least one column name"
	}
	return order, ""
}

func (s *Session) readLine(question string) (string, error) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("prompt: read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}
