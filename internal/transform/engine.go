package transform

import "fmt"

// Engine applies per-column transformations to positional rows and projects
// each result into the resolved output column order.
//
// Transformation always iterates the input column order, never the output
// order, so identifier assignment and any other stateful work observe values
// exactly as they appear in the source. Reordering is a pure projection
// performed on the already-transformed row.
type Engine struct {
	tr      *Transformer
	columns []string // input column order
	kinds   []Kind   // aligned to columns
	output  []string // resolved output column order
	project []int    // output index -> input index
}

// NewEngine resolves spec (column name -> kind string) and order against the
// input columns. Columns absent from spec pass through. Unrecognized kinds
// and output-order names that do not exist in columns are rejected here, at
// startup, rather than mid-run.
//
// An empty order means the output keeps the input column order. A non-empty
// order may also select a subset of the input columns.
func NewEngine(columns []string, spec map[string]string, order []string) (*Engine, error) {
	e := &Engine{
		tr:      New(),
		columns: columns,
		kinds:   make([]Kind, len(columns)),
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	for col, kindName := range spec {
		i, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("transformation configured for unknown column %q", col)
		}
		k, err := ParseKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		e.kinds[i] = k
	}

	if len(order) == 0 {
		order = columns
	}
	e.output = order
	e.project = make([]int, len(order))
	for oi, col := range order {
		i, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("output column order names unknown column %q", col)
		}
		e.project[oi] = i
	}

	return e, nil
}

// Columns returns the resolved output column order.
func (e *Engine) Columns() []string { return e.output }

// Transformer returns the engine's shared per-run Transformer.
func (e *Engine) Transformer() *Transformer { return e.tr }

// TransformRow transforms one row. The input must be aligned to the input
// columns; the returned slice is freshly allocated and aligned to the output
// column order. Rows are expected in source order: the identifier mapper is
// shared across calls, so out-of-order processing would renumber identifiers.
func (e *Engine) TransformRow(row []string) ([]string, error) {
	if len(row) != len(e.columns) {
		return nil, fmt.Errorf("row has %d fields, input has %d columns", len(row), len(e.columns))
	}

	transformed := make([]string, len(row))
	for i := range e.columns {
		v, err := e.tr.Apply(row[i], e.kinds[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", e.columns[i], err)
		}
		transformed[i] = v
	}

	if len(e.output) == len(e.columns) {
		identity := true
		for oi, si := range e.project {
			if oi != si {
				identity = false
				break
			}
		}
		if identity {
			return transformed, nil
		}
	}

	out := make([]string, len(e.project))
	for oi, si := range e.project {
		out[oi] = transformed[si]
	}
	return out, nil
}
