package cascade

import "wardtpr/internal/core/normalize"

type set map[string]struct{}

func toSet(toks []string) set {
	s := make(set, len(toks))
	for _, t := range toks {
		s[t] = struct{}{}
	}
	return s
}

func numeralsOf(s set) set {
	out := make(set)
	for t := range s {
		if normalize.IsNumeral(t) {
			out[t] = struct{}{}
		}
	}
	return out
}

func equalSets(a, b set) bool {
	if len(a) != len(b) {
		return false
	}
	for t := range a {
		if _, ok := b[t]; !ok {
			return false
		}
	}
	return true
}
