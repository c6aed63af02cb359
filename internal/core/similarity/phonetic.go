package similarity

import (
	"strings"
	"unicode"
)

var soundexCodes = map[rune]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// letters keeps ascii letters only, lowercased
func letters(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			out = append(out, byte(r))
		}
	}
	return out
}

// Soundex returns the 4 character American Soundex code of s, or "" when s has no letters.
// h and w do not separate letters with the same code; vowels do.
func Soundex(s string) string {
	l := letters(s)
	if len(l) == 0 {
		return ""
	}
	out := []byte{l[0] - 'a' + 'A'}
	prev := soundexCodes[rune(l[0])]
	for _, c := range l[1:] {
		code, ok := soundexCodes[rune(c)]
		switch {
		case ok && code != prev:
			out = append(out, code)
			prev = code
		case ok:
		case c == 'h' || c == 'w':
		default:
			prev = 0
		}
		if len(out) == 4 {
			break
		}
	}
	for len(out) < 4 {
		out = append(out, '0')
	}
	return string(out)
}

func vowel(c byte) bool {
	return c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u'
}

// Metaphone returns a simplified Metaphone key for s.
// Spaces are ignored so multi-word names produce one key.
func Metaphone(s string) string {
	l := letters(s)
	if len(l) == 0 {
		return ""
	}
	at := func(i int) byte {
		if i < 0 || i >= len(l) {
			return 0
		}
		return l[i]
	}

	// initial letter exceptions
	switch {
	case len(l) > 1 && (string(l[:2]) == "kn" || string(l[:2]) == "gn" || string(l[:2]) == "pn" || string(l[:2]) == "wr"):
		l = l[1:]
	case l[0] == 'x':
		l[0] = 's'
	case len(l) > 1 && string(l[:2]) == "wh":
		l = append([]byte{'w'}, l[2:]...)
	}

	var b strings.Builder
	for i, c := range l {
		if i > 0 && c == at(i-1) && c != 'c' {
			continue
		}
		switch c {
		case 'a', 'e', 'i', 'o', 'u':
			if i == 0 {
				b.WriteByte(c - 'a' + 'A')
			}
		case 'b':
			if !(i == len(l)-1 && at(i-1) == 'm') {
				b.WriteByte('B')
			}
		case 'c':
			switch {
			case at(i+1) == 'i' && at(i+2) == 'a', at(i+1) == 'h':
				b.WriteByte('X')
			case at(i+1) == 'i' || at(i+1) == 'e' || at(i+1) == 'y':
				if at(i-1) != 's' {
					b.WriteByte('S')
				}
			default:
				b.WriteByte('K')
			}
		case 'd':
			if at(i+1) == 'g' && (at(i+2) == 'e' || at(i+2) == 'i' || at(i+2) == 'y') {
				b.WriteByte('J')
			} else {
				b.WriteByte('T')
			}
		case 'g':
			switch {
			case at(i+1) == 'h' && !vowel(at(i+2)):
			case at(i+1) == 'n':
			case at(i+1) == 'i' || at(i+1) == 'e' || at(i+1) == 'y':
				b.WriteByte('J')
			default:
				b.WriteByte('K')
			}
		case 'h':
			if vowel(at(i+1)) && !strings.ContainsRune("cgpst", rune(at(i-1))) {
				b.WriteByte('H')
			}
		case 'k':
			if at(i-1) != 'c' {
				b.WriteByte('K')
			}
		case 'p':
			if at(i+1) == 'h' {
				b.WriteByte('F')
			} else {
				b.WriteByte('P')
			}
		case 'q':
			b.WriteByte('K')
		case 's':
			switch {
			case at(i+1) == 'h':
				b.WriteByte('X')
			case at(i+1) == 'i' && (at(i+2) == 'o' || at(i+2) == 'a'):
				b.WriteByte('X')
			default:
				b.WriteByte('S')
			}
		case 't':
			switch {
			case at(i+1) == 'i' && (at(i+2) == 'o' || at(i+2) == 'a'):
				b.WriteByte('X')
			case at(i+1) == 'h':
				b.WriteByte('0')
			case at(i+1) == 'c' && at(i+2) == 'h':
			default:
				b.WriteByte('T')
			}
		case 'v':
			b.WriteByte('F')
		case 'w', 'y':
			if vowel(at(i + 1)) {
				b.WriteByte(c - 'a' + 'A')
			}
		case 'x':
			b.WriteString("KS")
		case 'z':
			b.WriteByte('S')
		case 'f', 'j', 'l', 'm', 'n', 'r':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}

// SoundexKey is the Soundex code of every token of s, joined by spaces
func SoundexKey(s string) string { return tokenKey(s, Soundex) }

// MetaphoneKey is the Metaphone code of every token of s, joined by spaces
func MetaphoneKey(s string) string { return tokenKey(s, Metaphone) }

func tokenKey(s string, code func(string) string) string {
	var parts []string
	for _, tok := range strings.Fields(s) {
		if c := code(tok); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// PhoneticMatch reports whether a and b agree on their Soundex or Metaphone keys
func PhoneticMatch(a, b string) bool {
	if sa, sb := SoundexKey(a), SoundexKey(b); sa != "" && sa == sb {
		return true
	}
	ma, mb := MetaphoneKey(a), MetaphoneKey(b)
	return ma != "" && ma == mb
}
