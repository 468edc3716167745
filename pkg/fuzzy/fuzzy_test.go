package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"Launch", "launch", 0},
		{"café", "cafe", 0},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestLevenshteinDistance_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringMatching(`[a-z]{0,8}`).Draw(t, "a")
		b := rapid.StringMatching(`[a-z]{0,8}`).Draw(t, "b")

		d := LevenshteinDistance(a, b)
		if d != LevenshteinDistance(b, a) {
			t.Fatalf("distance is not symmetric for %q and %q", a, b)
		}
		if LevenshteinDistance(a, a) != 0 {
			t.Fatalf("distance of %q to itself is not zero", a)
		}
		longest := max(len(a), len(b))
		if d > longest {
			t.Fatalf("distance %d exceeds longest length %d", d, longest)
		}
	})
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 1, Threshold("abc"))
	assert.Equal(t, 2, Threshold("launch"))
	assert.Equal(t, 3, Threshold("marketing"))
}

func TestFuzzyMatch(t *testing.T) {
	assert.True(t, FuzzyMatch("launch", "Plan the Launch party", 2))
	assert.True(t, FuzzyMatch("lanch", "Plan the launch party", 2))
	assert.True(t, FuzzyMatch("part", "Plan the launch party", 1))
	assert.False(t, FuzzyMatch("budget", "Plan the launch party", 2))
	assert.False(t, FuzzyMatch("   ", "anything", 2))
}

func TestScore(t *testing.T) {
	exact := Score("launch", Field{Text: "launch day", Weight: 1})
	substring := Score("launch", Field{Text: "relaunching", Weight: 1})
	typo := Score("lanch", Field{Text: "launch day", Weight: 1})
	miss := Score("budget", Field{Text: "launch day", Weight: 1})

	assert.Equal(t, 150.0, exact)
	assert.Equal(t, 100.0, substring)
	assert.Equal(t, 35.0, typo)
	assert.Zero(t, miss)

	weighted := Score("launch", Field{Text: "launch", Weight: 0.5})
	assert.Equal(t, 75.0, weighted)

	assert.Zero(t, Score("", Field{Text: "launch"}))
	assert.Equal(t, 150.0, Score("launch", Field{Text: "launch"}))
}
