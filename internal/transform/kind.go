// Package transform implements the column transformation engine: stable
// identifier→integer mapping, synthetic redaction of names and emails,
// timestamp normalization, and the per-column dispatch that applies these
// while rows stream from input to output.
//
// All generators are stateless except the identifier mapper; a Transformer
// owns exactly one mapper, so construct one Transformer per run and share it
// across every row of that run.
package transform

import (
	"fmt"
	"strings"
)

// Kind selects a column transformation. The set is closed; resolution happens
// through an explicit switch rather than a lookup table so that an
// unrecognized kind is a hard, typed error instead of a silent map miss.
type Kind string

const (
	// KindNone applies no transformation; the value passes through unchanged.
	KindNone Kind = ""

	// KindUUIDToInt replaces an opaque identifier with its sequential integer.
	KindUUIDToInt Kind = "uuid_to_int"

	// KindRedact replaces the value with a synthetic name or email.
	KindRedact Kind = "redact"

	// KindTimestampToDate normalizes a timestamp string to YYYY-MM-DD.
	KindTimestampToDate Kind = "timestamp_to_date"
)

// Kinds returns the recognized transformation kinds in a stable order.
// Collaborators that build configurations (the interactive prompt, the probe)
// enumerate this list; KindNone is not included because "no transformation"
// is expressed by omitting the column.
func Kinds() []Kind {
	return []Kind{KindUUIDToInt, KindRedact, KindTimestampToDate}
}

// ParseKind converts a configuration string into a Kind. The empty string is
// valid and means pass-through. Anything outside the closed set yields an
// *UnknownKindError.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindNone, KindUUIDToInt, KindRedact, KindTimestampToDate:
		return k, nil
	default:
		return KindNone, &UnknownKindError{Kind: s}
	}
}

// UnknownKindError reports a transformation kind outside the closed set.
// The message names the offending kind and lists the valid ones so a caller
// can correct the configuration before reprocessing.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	valid := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		valid = append(valid, string(k))
	}
	return fmt.Sprintf("unknown transformation kind %q; valid kinds: %s", e.Kind, strings.Join(valid, ", "))
}
