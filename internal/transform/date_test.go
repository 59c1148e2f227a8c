package transform

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-Mar-01", "2025-03-01"},
		{"2021-Feb-17", "2021-02-17"},
		{"2020-Jun-19", "2020-06-19"},
		{"2024-Dec-31", "2024-12-31"},
		{"2025-03-23 16:54:43", "2025-03-23"},
		{"2025-03-23 16:54:43 CET", "2025-03-23"},
		{"2025-01-15 10:30:00 CET", "2025-01-15"},
		{"2025-03-23", "2025-03-23"},
		{"  2025-03-23  ", "2025-03-23"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Fatalf("NormalizeDate(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

/*
TestNormalizeDate_Fallback verifies the documented policy for unparseable
input: the preprocessed (CET-stripped, trimmed) string comes back unchanged.
The fallback is deliberate and must not be escalated to an error.
*/
func TestNormalizeDate_Fallback(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"not a date", "not a date"},
		{"", ""},
		{"03/23/2025", "03/23/2025"},
		{"garbage CET", "garbage"},
		{"  padded junk  ", "padded junk"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Fatalf("NormalizeDate(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestParseDate_ReportsMatch(t *testing.T) {
	if _, ok := ParseDate("2025-Mar-01"); !ok {
		t.Fatalf("ParseDate(2025-Mar-01) reported no match")
	}
	if _, ok := ParseDate("whenever"); ok {
		t.Fatalf("ParseDate(whenever) reported a match")
	}
}
