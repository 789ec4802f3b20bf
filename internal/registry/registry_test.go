package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextID_SequentialFormat(t *testing.T) {
	r := New()

	assert.Equal(t, "STU001", r.NextID(KindStudent, nil))
	assert.Equal(t, "STU002", r.NextID(KindStudent, nil))
	assert.Equal(t, "TCH001", r.NextID(KindTeacher, nil))
	assert.Equal(t, "ADM001", r.NextID(KindAdmin, nil))
	assert.Equal(t, "EX001", r.NextID(KindExam, nil))
}

func TestNextID_SkipsTakenIDs(t *testing.T) {
	r := New()
	taken := map[string]bool{
		"STU001": true,
		"STU002": true,
		"STU004": true,
	}

	assert.Equal(t, "STU003", r.NextID(KindStudent, func(id string) bool { return taken[id] }))
	// Counter committed at 3, so the next call lands on the taken 4 and skips it.
	assert.Equal(t, "STU005", r.NextID(KindStudent, func(id string) bool { return taken[id] }))
}

func TestNextID_AdversarialDenseRange(t *testing.T) {
	r := New()
	taken := make(map[string]bool, 5000)
	for i := 1; i <= 5000; i++ {
		taken[Format(KindExam, i)] = true
	}

	id := r.NextID(KindExam, func(id string) bool { return taken[id] })
	assert.Equal(t, "EX5001", id)
	assert.Equal(t, 5001, r.Counter(KindExam))
}

func TestNextID_PairwiseUniqueInterleavedWithResync(t *testing.T) {
	r := New()
	seen := make(map[string]bool)
	has := func(id string) bool { return seen[id] }

	for i := 0; i < 200; i++ {
		id := r.NextID(KindStudent, has)
		require.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true

		if i%25 == 0 {
			// Resync against a hand-edited set with a high suffix.
			r.Resync(KindStudent, []string{fmt.Sprintf("STU%03d", i+50), "bogus", ""})
		}
	}
}

func TestResync_RaisesToMaxSuffix(t *testing.T) {
	r := New()
	r.Resync(KindStudent, []string{"STU007", "STU042", "STU013"})
	assert.Equal(t, 42, r.Counter(KindStudent))
	assert.Equal(t, "STU043", r.NextID(KindStudent, nil))
}

func TestResync_NeverLowersCounter(t *testing.T) {
	r := New()
	r.SetCounter(KindTeacher, 100)

	r.Resync(KindTeacher, []string{"TCH003"})
	assert.Equal(t, 100, r.Counter(KindTeacher))

	r.Resync(KindTeacher, nil)
	assert.Equal(t, 100, r.Counter(KindTeacher))
}

func TestResync_IgnoresNonNumericSuffixes(t *testing.T) {
	r := New()
	r.Resync(KindAdmin, []string{"", "ADM", "admin-chief", "ADM009xyz"})
	assert.Equal(t, 0, r.Counter(KindAdmin))
}

func TestNumericSuffix(t *testing.T) {
	cases := []struct {
		id   string
		want int
	}{
		{"STU001", 1},
		{"STU123", 123},
		{"EX9", 9},
		{"legacy-77", 77},
		{"", 0},
		{"no-digits", 0},
		{"12mid34", 34},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NumericSuffix(tc.id), "id %q", tc.id)
	}
}

func TestSetCounter_ClampsNegative(t *testing.T) {
	r := New()
	r.SetCounter(KindExam, -5)
	assert.Equal(t, 0, r.Counter(KindExam))
	assert.Equal(t, "EX001", r.NextID(KindExam, nil))
}
