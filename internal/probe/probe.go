// Package probe samples a CSV file and profiles its columns so a user can see
// which transformations fit before writing a pipeline. For each column it
// counts distinct values (hashed, so wide columns stay cheap) and measures
// how identifier-, email-, or timestamp-shaped the values are, then suggests
// a transformation kind where the evidence is strong.
//
// The probe is advisory tooling: it never feeds the engine directly, and its
// suggestions are a starting point, not a contract.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"csvtransform/internal/config"
	"csvtransform/internal/datasource/file"
	csvparser "csvtransform/internal/parser/csv"
	"csvtransform/internal/transform"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/runes"
	textransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options control sampling and output.
type Options struct {
	// Path is the local CSV file to sample.
	Path string

	// MaxBytes caps how much of the file is read. Zero means 256 KiB.
	MaxBytes int

	// MaxRows caps how many data rows are profiled. Zero means 1000.
	MaxRows int

	// Delimiter is the field delimiter; zero means ','.
	Delimiter rune

	// JSON emits a ready-to-edit pipeline config instead of the text summary.
	JSON bool

	// Job overrides the job name in the generated pipeline. Empty derives it
	// from the file name.
	Job string

	// Output is the sink path in the generated pipeline. Empty derives
	// "<input>_out.csv".
	Output string
}

// ColumnProfile summarizes one column of the sample.
type ColumnProfile struct {
	// Name is the exact header name.
	Name string

	// Values counts non-empty sampled values.
	Values int

	// Distinct counts distinct non-empty values (via 64-bit hashing; for
	// sample sizes here, collisions are irrelevant).
	Distinct int

	// IDLike, EmailLike and DateLike count values matching each shape.
	IDLike    int
	EmailLike int
	DateLike  int

	// Suggested is the recommended transformation kind, or KindNone.
	Suggested transform.Kind
}

// Result carries the rendered output plus the raw profiles for callers that
// want them.
type Result struct {
	Body    []byte
	Columns []ColumnProfile
}

// uuidRe matches canonical hex-and-dash UUIDs, case-insensitive.
var uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// suggestionThreshold is the fraction of non-empty values that must match a
// shape before it is suggested.
const suggestionThreshold = 0.9

// Probe samples opt.Path and returns per-column profiles plus rendered output.
func Probe(ctx context.Context, opt Options) (*Result, error) {
	if opt.Path == "" {
		return nil, fmt.Errorf("probe: path must not be empty")
	}
	maxBytes := opt.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 256 << 10
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = 1000
	}

	rc, err := file.NewLocal(opt.Path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r, err := csvparser.NewReader(io.LimitReader(rc, int64(maxBytes)), csvparser.Options{
		Comma:           opt.Delimiter,
		TrimSpace:       true,
		LazyQuotes:      true,
		FieldsPerRecord: -1, // best-effort: the sample may end mid-row
	})
	if err != nil {
		return nil, err
	}

	header := r.Header()
	profiles := make([]ColumnProfile, len(header))
	distinct := make([]map[uint64]struct{}, len(header))
	for i, name := range header {
		profiles[i].Name = name
		distinct[i] = make(map[uint64]struct{})
	}

	for rows := 0; rows < maxRows; rows++ {
		row, err := r.Next()
		if err != nil {
			// io.EOF, a byte-cap truncated tail, or a malformed line all end
			// the sample; the probe reports whatever it saw.
			break
		}
		if len(row) != len(header) {
			continue
		}
		for i, v := range row {
			if v == "" {
				continue
			}
			p := &profiles[i]
			p.Values++
			distinct[i][xxh3.HashString(v)] = struct{}{}
			if uuidRe.MatchString(v) {
				p.IDLike++
			}
			if strings.Contains(v, "@") {
				p.EmailLike++
			}
			if _, ok := transform.ParseDate(v); ok {
				p.DateLike++
			}
		}
	}

	for i := range profiles {
		profiles[i].Distinct = len(distinct[i])
		profiles[i].Suggested = suggest(profiles[i])
	}

	res := &Result{Columns: profiles}
	if opt.JSON {
		res.Body, err = renderPipeline(opt, header, profiles)
		if err != nil {
			return nil, err
		}
	} else {
		res.Body = renderSummary(profiles)
	}
	return res, nil
}

// suggest picks a kind when one shape dominates the column. Email wins over
// identifier because an address column is also high-distinct; dates rarely
// collide with either.
func suggest(p ColumnProfile) transform.Kind {
	if p.Values == 0 {
		return transform.KindNone
	}
	ratio := func(n int) float64 { return float64(n) / float64(p.Values) }
	switch {
	case ratio(p.EmailLike) >= suggestionThreshold:
		return transform.KindRedact
	case ratio(p.DateLike) >= suggestionThreshold:
		return transform.KindTimestampToDate
	case ratio(p.IDLike) >= suggestionThreshold && p.Distinct == p.Values:
		return transform.KindUUIDToInt
	default:
		return transform.KindNone
	}
}

// renderSummary renders one text line per column.
func renderSummary(profiles []ColumnProfile) []byte {
	var b bytes.Buffer
	for _, p := range profiles {
		suggested := string(p.Suggested)
		if suggested == "" {
			suggested = "-"
		}
		fmt.Fprintf(&b, "%s: values=%d distinct=%d uuid=%d email=%d date=%d suggest=%s\n",
			p.Name, p.Values, p.Distinct, p.IDLike, p.EmailLike, p.DateLike, suggested)
	}
	return b.Bytes()
}

// renderPipeline emits a ready-to-edit pipeline config carrying the
// suggestions.
func renderPipeline(opt Options, header []string, profiles []ColumnProfile) ([]byte, error) {
	columns := map[string]string{}
	for _, p := range profiles {
		if p.Suggested != transform.KindNone {
			columns[p.Name] = string(p.Suggested)
		}
	}

	base := strings.TrimSuffix(filepath.Base(opt.Path), filepath.Ext(opt.Path))
	job := opt.Job
	if job == "" {
		job = NormalizeName(base)
	}
	output := opt.Output
	if output == "" {
		output = base + "_out.csv"
	}

	p := config.Pipeline{
		Job:    job,
		Source: config.Source{Kind: "file", File: config.SourceFile{Path: opt.Path}},
		Parser: config.Parser{Kind: "csv", Options: config.Options{"trim_space": true}},
		Transform: config.Transform{
			Columns:     columns,
			ColumnOrder: header,
		},
		Sink: config.Sink{Kind: "csv", CSV: config.SinkCSV{Path: output}},
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("probe: marshal pipeline: %w", err)
	}
	return append(out, '\n'), nil
}

// NormalizeName turns an arbitrary file or column name into a safe lowercase
// snake_case identifier for job and table names: accents are folded away
// (e.g. "Naměřeno" → "namereno"), anything non-alphanumeric becomes an
// underscore, and runs collapse.
func NormalizeName(s string) string {
	folded, _, err := textransform.String(
		textransform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
