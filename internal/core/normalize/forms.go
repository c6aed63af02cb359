package normalize

import (
	"strings"
	"unicode"
)

var romans = []string{
	"i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x",
	"xi", "xii", "xiii", "xiv", "xv", "xvi", "xvii", "xviii", "xix", "xx",
}

var arabicToRoman = func() map[string]string {
	m := make(map[string]string, len(romans))
	for i, r := range romans {
		m[itoa(i+1)] = r
	}
	return m
}()

var romanSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(romans))
	for _, r := range romans {
		m[r] = struct{}{}
	}
	return m
}()

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// IsNumeral reports whether a lowercase token is an arabic number or a roman numeral up to xx
func IsNumeral(tok string) bool {
	if tok == "" {
		return false
	}
	if _, ok := romanSet[tok]; ok {
		return true
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CanonicalNumeral maps "2" and "02" to "ii"; other tokens pass through
func CanonicalNumeral(tok string) string {
	t := strings.TrimLeft(tok, "0")
	if r, ok := arabicToRoman[t]; ok {
		return r
	}
	return tok
}

// Tokens splits a normalized name on whitespace, slash and hyphen
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '-'
	})
}

// CanonicalTokens is Tokens with numerals mapped to roman form
func CanonicalTokens(s string) []string {
	toks := Tokens(s)
	for i, t := range toks {
		toks[i] = CanonicalNumeral(t)
	}
	return toks
}

// Numerals returns the numeral tokens of s as written, in order
func Numerals(s string) []string {
	var out []string
	for _, t := range Tokens(s) {
		if IsNumeral(t) {
			out = append(out, t)
		}
	}
	return out
}

// AlnumOnly keeps letters and digits and drops everything else, spaces included
func AlnumOnly(s string) string {
	if s == "" {
		return s
	}
	b := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b = append(b, r)
		}
	}
	return string(b)
}
