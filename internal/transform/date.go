package transform

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the first full-string parse wins. Order
// matters: the timestamp layout must come before the bare date layout so the
// two cannot shadow each other on prefixes.
var dateLayouts = []string{
	"2006-Jan-02",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate preprocesses s (removes a literal " CET" token, trims space) and
// attempts the known layouts in order. It returns the canonical YYYY-MM-DD
// form and true on a match, or the preprocessed string and false otherwise.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, " CET", ""))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return s, false
}

// NormalizeDate converts a timestamp string to YYYY-MM-DD. When no layout
// matches, the preprocessed input is returned unchanged; the fallback is a
// documented policy, not an error, and the output table then carries the
// original (stripped) value.
func NormalizeDate(s string) string {
	out, _ := ParseDate(s)
	return out
}
