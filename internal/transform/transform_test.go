package transform

import (
	"errors"
	"strings"
	"testing"
)

func TestApply_PassThrough(t *testing.T) {
	tr := New()

	got, err := tr.Apply("some value", KindNone)
	if err != nil {
		t.Fatalf("Apply(KindNone) error: %v", err)
	}
	if got != "some value" {
		t.Fatalf("Apply(KindNone) = %q; want input unchanged", got)
	}
}

func TestApply_UUIDToInt(t *testing.T) {
	tr := New()

	got, err := tr.Apply("EFEABEA5-981B-4E45-8F13-425C456BF7F6", KindUUIDToInt)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if got != "1" {
		t.Fatalf("first-seen uuid = %q; want \"1\"", got)
	}

	// Same uuid again through the dispatcher: same integer.
	again, err := tr.Apply("EFEABEA5-981B-4E45-8F13-425C456BF7F6", KindUUIDToInt)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if again != "1" {
		t.Fatalf("repeat uuid = %q; want \"1\"", again)
	}
}

func TestApply_Redact(t *testing.T) {
	tr := New()

	got, err := tr.Apply("John Doe", KindRedact)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if got == "" || strings.Contains(got, "@") {
		t.Fatalf("Apply(redact, name) = %q; want a non-empty name", got)
	}
}

func TestApply_TimestampToDate(t *testing.T) {
	tr := New()

	got, err := tr.Apply("2025-Mar-01", KindTimestampToDate)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if got != "2025-03-01" {
		t.Fatalf("Apply(timestamp_to_date) = %q; want 2025-03-01", got)
	}
}

func TestApply_UnknownKind(t *testing.T) {
	tr := New()

	_, err := tr.Apply("value", Kind("bogus_kind"))
	if err == nil {
		t.Fatalf("Apply(bogus_kind) succeeded; want error")
	}
	var uk *UnknownKindError
	if !errors.As(err, &uk) {
		t.Fatalf("error %T is not *UnknownKindError", err)
	}
	if uk.Kind != "bogus_kind" {
		t.Fatalf("UnknownKindError.Kind = %q; want bogus_kind", uk.Kind)
	}
	// The message must name the offender and list the valid kinds.
	msg := err.Error()
	for _, want := range []string{"bogus_kind", "uuid_to_int", "redact", "timestamp_to_date"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q does not mention %q", msg, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if k, err := ParseKind(""); err != nil || k != KindNone {
		t.Fatalf("ParseKind(\"\") = %q, %v; want KindNone, nil", k, err)
	}
	if _, err := ParseKind("drop_column"); err == nil {
		t.Fatalf("ParseKind(drop_column) succeeded; want error")
	}
}
