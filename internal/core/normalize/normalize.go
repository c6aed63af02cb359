// Package normalize cleans ward names for comparison.
// Pipeline order
// 1 Sanitize controls and drop invalid UTF-8
// 2 Strip a 2-letter lowercase locale prefix ("ri Port-Harcourt")
// 3 Unicode NFKD, case fold, drop combining and format marks, width fold
// 4 Collapse whitespace to single spaces and trim
// 5 Strip trailing parenthetical hints ("Yola North (Girei)")
// 6 Drop a trailing "Ward" token, also "Ward <numeral>" -> "<numeral>"
//
// Every step is idempotent on its own output, so Normalize(Normalize(s)) == Normalize(s).
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is safe for concurrent use; transformer chains come from a pool
type Normalizer struct{}

var chainPool = sync.Pool{
	New: func() any {
		// decompose first so accents become removable marks, then recompose
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)), // combining marks
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
			width.Fold,
			norm.NFC,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the comparison key for a raw ward name
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := Fold(StripLocalePrefix(Sanitize(raw)))
	s = stripParentheticals(s)
	return trimWardToken(s, "ward", "wards")
}

// Display returns the cleaned name with its original casing. Locale prefix,
// parenthetical hint and trailing Ward token are removed as in Normalize.
func (n *Normalizer) Display(raw string) string {
	if raw == "" {
		return ""
	}
	s := StripLocalePrefix(Sanitize(raw))
	s = collapseSpaces(stripParentheticals(s))
	return trimWardTokenFold(s)
}

// Fold applies the unicode chain and whitespace collapse only.
// It is the case and whitespace insensitive form used for exact comparison.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	out, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	return collapseSpaces(out)
}

// StripLocalePrefix removes a leading 2-letter lowercase prefix followed by
// whitespace when the next word starts with an uppercase letter.
// Lowercase continuations are left alone so folded output is stable.
func StripLocalePrefix(s string) string {
	t := strings.TrimLeftFunc(s, unicode.IsSpace)
	rs := []rune(t)
	if len(rs) < 4 {
		return s
	}
	if !unicode.IsLower(rs[0]) || !unicode.IsLower(rs[1]) || !unicode.IsSpace(rs[2]) {
		return s
	}
	i := 2
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	if i == len(rs) {
		return s
	}
	if !unicode.IsUpper(rs[i]) {
		return s
	}
	return string(rs[i:])
}

// ExtractParenthetical splits a trailing "(hint)" off raw.
// ok reports whether a non-empty hint was found; body is trimmed either way.
func ExtractParenthetical(raw string) (body, hint string, ok bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasSuffix(s, ")") {
		return s, "", false
	}
	open := strings.LastIndexByte(s, '(')
	if open < 0 {
		return s, "", false
	}
	body = strings.TrimSpace(s[:open])
	hint = collapseSpaces(s[open+1 : len(s)-1])
	if body == "" {
		// a name that is only a parenthetical keeps its text
		return hint, "", false
	}
	return body, hint, hint != ""
}

func stripParentheticals(s string) string {
	for {
		body, _, _ := ExtractParenthetical(s)
		if body == strings.TrimSpace(s) {
			return body
		}
		s = body
	}
}

// trimWardToken drops "ward" when it is the last token, or when only a numeral follows it.
// A bare "ward" or "ward 2" is left alone since nothing else would remain.
func trimWardToken(s string, words ...string) string {
	for {
		toks := strings.Split(s, " ")
		out, changed := dropWard(toks, func(t string) bool {
			for _, w := range words {
				if t == w {
					return true
				}
			}
			return false
		})
		if !changed {
			return s
		}
		s = strings.Join(out, " ")
	}
}

func trimWardTokenFold(s string) string {
	for {
		toks := strings.Split(s, " ")
		out, changed := dropWard(toks, func(t string) bool {
			return strings.EqualFold(t, "ward") || strings.EqualFold(t, "wards")
		})
		if !changed {
			return s
		}
		s = strings.Join(out, " ")
	}
}

func dropWard(toks []string, isWard func(string) bool) ([]string, bool) {
	n := len(toks)
	switch {
	case n >= 2 && isWard(toks[n-1]):
		return toks[:n-1], true
	case n >= 3 && isWard(toks[n-2]) && IsNumeral(strings.ToLower(toks[n-1])):
		out := append(append([]string{}, toks[:n-2]...), toks[n-1])
		return out, true
	}
	return toks, false
}

// collapseSpaces converts every whitespace run to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
