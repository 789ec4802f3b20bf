// Package registry generates and reconciles entity identifiers. Each entity
// kind has a monotonically increasing counter; candidates are re-checked
// against the live id set so hand-edited or imported data can never cause a
// collision. Freed ids are deliberately not reused.
package registry

import (
	"fmt"
	"regexp"
	"strconv"
)

// Kind identifies an entity class with its own counter and prefix.
type Kind string

const (
	KindStudent Kind = "student"
	KindTeacher Kind = "teacher"
	KindAdmin   Kind = "admin"
	KindExam    Kind = "exam"
)

// Kinds lists every registered kind.
var Kinds = []Kind{KindStudent, KindTeacher, KindAdmin, KindExam}

// prefixes maps each kind to its id prefix. Ids are zero-padded to three
// digits but grow naturally past 999.
var prefixes = map[Kind]string{
	KindStudent: "STU",
	KindTeacher: "TCH",
	KindAdmin:   "ADM",
	KindExam:    "EX",
}

// Prefix returns the id prefix for a kind.
func Prefix(kind Kind) string {
	return prefixes[kind]
}

// Format renders the id for a kind and counter value.
func Format(kind Kind, n int) string {
	return fmt.Sprintf("%s%03d", prefixes[kind], n)
}

var numericSuffix = regexp.MustCompile(`(\d+)$`)

// NumericSuffix extracts the trailing number of an identifier. Missing or
// non-numeric suffixes count as zero.
func NumericSuffix(id string) int {
	m := numericSuffix.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Registry holds the per-kind counters.
type Registry struct {
	counters map[Kind]int
}

// New returns a registry with all counters at zero.
func New() *Registry {
	return &Registry{counters: make(map[Kind]int)}
}

// Counter returns the current counter value for a kind.
func (r *Registry) Counter(kind Kind) int {
	return r.counters[kind]
}

// SetCounter overwrites the counter for a kind. Used when restoring
// persisted counter values; Resync afterwards guards against stale values.
func (r *Registry) SetCounter(kind Kind, value int) {
	if value < 0 {
		value = 0
	}
	r.counters[kind] = value
}

// NextID increments the counter and returns the first candidate id not
// already taken. The new counter value is committed as a side effect, so a
// collision run never repeats. taken may be nil when no ids exist yet.
func (r *Registry) NextID(kind Kind, taken func(id string) bool) string {
	for {
		r.counters[kind]++
		candidate := Format(kind, r.counters[kind])
		if taken == nil || !taken(candidate) {
			return candidate
		}
	}
}

// Resync raises the counter for a kind to at least the maximum numeric
// suffix among the given ids. It never lowers a counter. Must be called
// after every load, bulk import, and manual id assignment.
func (r *Registry) Resync(kind Kind, ids []string) {
	max := r.counters[kind]
	for _, id := range ids {
		if n := NumericSuffix(id); n > max {
			max = n
		}
	}
	r.counters[kind] = max
}
