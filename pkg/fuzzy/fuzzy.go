package fuzzy

import (
	"strings"
	"unicode"
)

// LevenshteinDistance counts the single-rune insertions, deletions and
// substitutions needed to turn s1 into s2, after normalisation.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeString(s1))
	r2 := []rune(normalizeString(s2))

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two rolling rows are enough
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// Threshold is the edit distance tolerated for a query of this length.
func Threshold(query string) int {
	n := len([]rune(normalizeString(query)))
	switch {
	case n <= 3:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// FuzzyMatch checks if query fuzzy-matches text within a given threshold
func FuzzyMatch(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)
	if query == "" {
		return false
	}

	if strings.Contains(text, query) {
		return true
	}

	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) || LevenshteinDistance(query, word) <= threshold {
			return true
		}
	}

	return false
}

// Field is one searchable piece of an item. Weight scales its contribution.
type Field struct {
	Text   string
	Weight float64
}

// Score rates how well query matches the fields. Zero means no match.
//
// A substring hit scores 100 (plus 50 for a whole-word hit), a prefix hit 40
// and a near-miss word 50 minus 15 per edit, each multiplied by the field weight.
func Score(query string, fields ...Field) float64 {
	query = normalizeString(query)
	if query == "" {
		return 0
	}
	threshold := Threshold(query)

	score := 0.0
	for _, f := range fields {
		text := normalizeString(f.Text)
		if text == "" {
			continue
		}
		weight := f.Weight
		if weight == 0 {
			weight = 1
		}

		if strings.Contains(text, query) {
			fieldScore := 100.0
			if containsWord(text, query) {
				fieldScore += 50.0
			}
			score += fieldScore * weight
			continue
		}

		best := 0.0
		for _, word := range strings.Fields(text) {
			if strings.HasPrefix(word, query) {
				best = max(best, 40.0)
			}
			if dist := LevenshteinDistance(query, word); dist <= threshold {
				best = max(best, 50.0-float64(dist)*15)
			}
		}
		score += best * weight
	}

	return score
}

// normalizeString lower-cases, strips accents and collapses whitespace
func normalizeString(s string) string {
	s = removeAccents(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// containsWord checks if text contains query as a whole word
func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}

// removeAccents drops combining marks and folds common Latin accented letters to ASCII
func removeAccents(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'á', 'à', 'ả', 'ã', 'ạ', 'ă', 'ắ', 'ằ', 'ẳ', 'ẵ', 'ặ', 'â', 'ấ', 'ầ', 'ẩ', 'ẫ', 'ậ', 'ä', 'å':
			result.WriteRune('a')
		case 'é', 'è', 'ẻ', 'ẽ', 'ẹ', 'ê', 'ế', 'ề', 'ể', 'ễ', 'ệ', 'ë':
			result.WriteRune('e')
		case 'í', 'ì', 'ỉ', 'ĩ', 'ị', 'î', 'ï':
			result.WriteRune('i')
		case 'ó', 'ò', 'ỏ', 'õ', 'ọ', 'ô', 'ố', 'ồ', 'ổ', 'ỗ', 'ộ', 'ơ', 'ớ', 'ờ', 'ở', 'ỡ', 'ợ', 'ö':
			result.WriteRune('o')
		case 'ú', 'ù', 'ủ', 'ũ', 'ụ', 'ư', 'ứ', 'ừ', 'ử', 'ữ', 'ự', 'û', 'ü':
			result.WriteRune('u')
		case 'ý', 'ỳ', 'ỷ', 'ỹ', 'ỵ', 'ÿ':
			result.WriteRune('y')
		case 'đ':
			result.WriteRune('d')
		case 'ç':
			result.WriteRune('c')
		case 'ñ':
			result.WriteRune('n')
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
