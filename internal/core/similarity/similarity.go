// Package similarity holds the string scores used by the match cascade and the option parser.
// All scores are in [0,1] and symmetric. Inputs are expected to be normalized already.
package similarity

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio is 1 - levenshtein distance / longer length, counted in runes
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// TokenSortRatio compares the whitespace tokens of both sides after sorting them
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// Best is the higher of Ratio and TokenSortRatio
func Best(a, b string) float64 {
	return max(Ratio(a, b), TokenSortRatio(a, b))
}

// Jaccard is the overlap of the letter and digit rune sets of a and b
func Jaccard(a, b string) float64 {
	sa, sb := runeSet(a), runeSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}
	inter := 0
	for r := range sa {
		if _, ok := sb[r]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

func sortTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func runeSet(s string) map[rune]struct{} {
	m := make(map[rune]struct{}, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			m[r] = struct{}{}
		}
	}
	return m
}
