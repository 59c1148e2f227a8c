package transform

import "strconv"

// Transformer applies a single configured transformation to a value. It owns
// the per-run identifier mapping state, so repeated identifiers map
// consistently for the lifetime of the Transformer; construct one per run.
type Transformer struct {
	ids *IDMap
	red *Redactor
}

// New returns a Transformer with a fresh identifier mapper and a time-seeded
// redactor.
func New() *Transformer {
	return &Transformer{ids: NewIDMap(), red: NewRedactor(nil)}
}

// IDs exposes the identifier mapper, mainly for run summaries.
func (t *Transformer) IDs() *IDMap { return t.ids }

// Apply dispatches value to the operation selected by kind. KindNone returns
// the value unchanged; an unrecognized kind returns an *UnknownKindError.
// Integer results are rendered as decimal text, which is how every sink
// serializes them.
func (t *Transformer) Apply(value string, kind Kind) (string, error) {
	switch kind {
	case KindNone:
		return value, nil
	case KindUUIDToInt:
		return strconv.Itoa(t.ids.Assign(value)), nil
	case KindRedact:
		return t.red.Redact(value), nil
	case KindTimestampToDate:
		return NormalizeDate(value), nil
	default:
		return "", &UnknownKindError{Kind: string(kind)}
	}
}
