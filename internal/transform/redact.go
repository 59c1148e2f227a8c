package transform

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Fixed pools for synthesized replacement values. The pools are deliberately
// small and English-only; output variety, not uniqueness, is the goal.
var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael",
	"Linda", "William", "Elizabeth", "David", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen", "Christopher",
	"Nancy", "Daniel", "Lisa", "Matthew", "Betty", "Anthony", "Margaret",
	"Mark", "Sandra", "Donald", "Ashley", "Steven", "Kimberly", "Paul",
	"Emily", "Andrew", "Donna", "Joshua", "Michelle", "Kenneth", "Dorothy",
	"Kevin", "Carol", "Brian", "Amanda", "George", "Melissa", "Timothy",
	"Deborah", "Ronald", "Stephanie", "Edward", "Rebecca", "Jason", "Sharon",
	"Jeffrey", "Laura", "Ryan", "Cynthia", "Jacob", "Kathleen",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark",
	"Ramirez", "Lewis", "Robinson", "Walker", "Young", "Allen", "King",
	"Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores", "Green",
	"Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
	"Carter", "Roberts",
}

var emailDomains = []string{
	"test.com", "example.com", "demo.net", "sample.org", "redacted.io",
}

const asciiLower = "abcdefghijklmnopqrstuvwxyz"

// Redactor generates synthetic replacement values for names and email-like
// strings. Output is random across calls with no uniqueness guarantee and no
// recoverability; the input value's content is ignored by the generators.
type Redactor struct {
	rnd *rand.Rand
}

// NewRedactor returns a Redactor driven by rnd. Pass nil for a time-seeded
// source; tests pass a fixed-seed source for reproducible output.
func NewRedactor(rnd *rand.Rand) *Redactor {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &Redactor{rnd: rnd}
}

// Name returns a two-token "First Last" string drawn uniformly from the
// fixed pools.
func (r *Redactor) Name(_ string) string {
	first := firstNames[r.rnd.IntN(len(firstNames))]
	last := lastNames[r.rnd.IntN(len(lastNames))]
	return first + " " + last
}

// Email returns "<local>@<domain>" where local is random lowercase alphabetic
// of length 5..10 and domain comes from the fixed pool.
func (r *Redactor) Email(_ string) string {
	n := 5 + r.rnd.IntN(6)
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(asciiLower[r.rnd.IntN(len(asciiLower))])
	}
	return b.String() + "@" + emailDomains[r.rnd.IntN(len(emailDomains))]
}

// Redact picks a generator by shape: any value containing "@" is treated as
// email-shaped, everything else as a name. This is a heuristic, not a
// validator; a name containing "@" will be replaced with an email.
func (r *Redactor) Redact(value string) string {
	if strings.Contains(value, "@") {
		return r.Email(value)
	}
	return r.Name(value)
}
