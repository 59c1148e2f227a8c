// Package config defines the JSON-serializable pipeline model for the CSV
// transformation tool. It is intentionally small, explicit, and dependency-
// free so that pipelines can be loaded from disk (or built by the interactive
// prompt) and passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in pipeline
//     files under configs/pipelines/*.json.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "job":     "users",
//	  "source":  { "kind": "file", "file": { "path": "users.csv" } },
//	  "parser":  { "kind": "csv", "options": { "trim_space": true } },
//	  "transform": {
//	    "columns":      { "id": "uuid_to_int", "email": "redact" },
//	    "column_order": [ "id", "email" ]
//	  },
//	  "sink":    { "kind": "csv", "csv": { "path": "users_out.csv" } }
//	}
package config

import "encoding/json"

// Pipeline describes one full transformation run. It is the top-level object
// decoded from a pipeline file.
type Pipeline struct {
	// Job is the logical run name, used for metrics labeling and log lines.
	Job string `json:"job"`

	// Source describes where input data comes from.
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into rows.
	Parser Parser `json:"parser"`

	// Transform maps columns to transformation kinds and optionally fixes the
	// output column order.
	Transform Transform `json:"transform"`

	// Sink describes where transformed rows are written.
	Sink Sink `json:"sink"`

	// Runtime controls batching of sink writes.
	Runtime Runtime `json:"runtime"`
}

// Source identifies the data source. Only local files are supported; the tool
// has no network surface.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`
}

// Parser selects how to parse the raw source into rows.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, recognized keys are: comma (string), trim_space (bool),
	// lazy_quotes (bool), fields_per_record (int).
	Options Options `json:"options"`
}

// Transform holds the per-column transformation mapping and the output
// column layout.
type Transform struct {
	// Columns maps column name -> transformation kind. Columns not present
	// pass through unchanged. Valid kinds are enumerated by the transform
	// package; unknown kinds fail validation and engine construction.
	Columns map[string]string `json:"columns"`

	// ColumnOrder, when non-empty, fixes the output column order. It must
	// name existing input columns and may select a subset. Empty means the
	// input order is kept.
	ColumnOrder []string `json:"column_order"`
}

// Sink selects where transformed rows are written.
type Sink struct {
	// Kind selects the sink implementation: "csv" or "sqlite".
	Kind string `json:"kind"`

	// CSV carries options for the "csv" sink kind.
	CSV SinkCSV `json:"csv"`

	// DB carries options for file-backed database sinks ("sqlite").
	DB DBConfig `json:"db"`
}

// SinkCSV holds configuration for the "csv" sink kind.
type SinkCSV struct {
	// Path is the output file path. An existing file is truncated.
	Path string `json:"path"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is passed to database/sql; for SQLite this is a file path or a
	// file: URI (e.g. "out.db" or "file:out.db?_fk=1").
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`

	// AutoCreateTable creates the destination table from the resolved output
	// columns before the first write.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Runtime controls batching of sink writes.
type Runtime struct {
	// BatchSize is the number of rows grouped per sink write. Zero or
	// negative selects the default.
	BatchSize int `json:"batch_size"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns the provided default when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so this accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character settings such as the CSV
// delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map. This removes the
// need to nil-check Options at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
