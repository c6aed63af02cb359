package cascade

import (
	"strings"
	"unicode/utf8"

	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/core/normalize"
	"wardtpr/internal/core/similarity"
)

type exactMatcher struct{}

func (exactMatcher) Technique() Technique { return TechniqueExact }

// Attempt accepts equal folded names. Duplicate names in several LGAs prefer the hinted LGA.
func (exactMatcher) Attempt(q Query, pool *Pool, _ Context) (Match, bool) {
	var b best
	for i := range pool.entries {
		e := &pool.entries[i]
		if e.fold != q.Fold {
			continue
		}
		score := 1.0
		if q.hintKey != "" && e.lgaKey != q.hintKey {
			score = 1 - 1e-6
		}
		b.offer(e, score)
	}
	m, ok := b.match(TechniqueExact)
	if ok {
		m.Score = 1
	}
	return m, ok
}

// Every technique after exact needs the numeral tokens of both names to agree,
// so "Port Harcourt I" never stands in for "Port Harcourt II".

type adminMatcher struct{ opts Options }

func (adminMatcher) Technique() Technique { return TechniqueAdminContext }

func (a adminMatcher) Attempt(q Query, pool *Pool, _ Context) (Match, bool) {
	if q.hintKey == "" {
		return Match{}, false
	}
	var b best
	for i := range pool.entries {
		e := &pool.entries[i]
		if e.lgaKey == "" || similarity.TokenSortRatio(e.lgaKey, q.hintKey) < a.opts.LGAHintMin {
			continue
		}
		if !equalSets(q.numset, e.numset) {
			continue
		}
		if s := similarity.Best(q.Key, e.key); s >= a.opts.AdminMin {
			b.offer(e, s)
		}
	}
	return b.match(TechniqueAdminContext)
}

type phoneticMatcher struct{ opts Options }

func (phoneticMatcher) Technique() Technique { return TechniquePhonetic }

// Attempt needs numerals written the same way on both sides since the codes ignore digits
func (p phoneticMatcher) Attempt(q Query, pool *Pool, _ Context) (Match, bool) {
	var b best
	for i := range pool.entries {
		e := &pool.entries[i]
		if !sameStrings(q.Numerals, e.numerals) {
			continue
		}
		if !similarity.PhoneticMatch(q.Key, e.key) {
			continue
		}
		if s := similarity.Ratio(q.Key, e.key); s >= p.opts.PhoneticMin {
			b.offer(e, s)
		}
	}
	return b.match(TechniquePhonetic)
}

type tokenMatcher struct{}

func (tokenMatcher) Technique() Technique { return TechniqueTokenReorder }

// Attempt accepts identical token sets, or sets differing by one token of the smaller side
// when that side has two or more tokens.
func (tokenMatcher) Attempt(q Query, pool *Pool, _ Context) (Match, bool) {
	qs := toSet(q.Tokens)
	if len(qs) == 0 {
		return Match{}, false
	}
	var b best
	for i := range pool.entries {
		e := &pool.entries[i]
		if !equalSets(q.numset, e.numset) {
			continue
		}
		es := toSet(e.tokens)
		small, large := qs, es
		if len(small) > len(large) {
			small, large = large, small
		}
		inter := 0
		for t := range small {
			if _, ok := large[t]; ok {
				inter++
			}
		}
		switch {
		case inter == len(small) && len(small) == len(large):
			b.offer(e, 1)
		case len(small) >= 2 && inter >= len(small)-1:
			b.offer(e, float64(inter)/float64(len(large)))
		}
	}
	return b.match(TechniqueTokenReorder)
}

type abbrevMatcher struct {
	opts Options
	lx   *lexicon.Lexicon
}

func (abbrevMatcher) Technique() Technique { return TechniqueAbbreviation }

// Attempt only runs when the table changed the raw name
func (a abbrevMatcher) Attempt(q Query, pool *Pool, _ Context) (Match, bool) {
	if a.lx == nil {
		return Match{}, false
	}
	exp := a.lx.Expand(q.Key)
	if exp == q.Key {
		return Match{}, false
	}
	expNums := numeralsOf(toSet(normalize.CanonicalTokens(exp)))
	var b best
	for i := range pool.entries {
		e := &pool.entries[i]
		target := a.lx.Expand(e.key)
		if !equalSets(expNums, numeralsOf(toSet(normalize.CanonicalTokens(target)))) {
			continue
		}
		if s := similarity.Best(exp, target); s >= a.opts.AbbrevMin {
			b.offer(e, s)
		}
	}
	return b.match(TechniqueAbbreviation)
}

type charsetMatcher struct{}

func (charsetMatcher) Technique() Technique { return TechniqueCharset }

func (charsetMatcher) Attempt(q Query, pool *Pool, _ Context) (Match, bool) {
	if q.Alnum == "" {
		return Match{}, false
	}
	var b best
	for i := range pool.entries {
		e := &pool.entries[i]
		if e.alnum == q.Alnum {
			b.offer(e, 1)
		}
	}
	return b.match(TechniqueCharset)
}

type substringMatcher struct{ opts Options }

func (substringMatcher) Technique() Technique { return TechniqueSubstring }

func (s substringMatcher) Attempt(q Query, pool *Pool, _ Context) (Match, bool) {
	if utf8.RuneCountInString(q.Alnum) < s.opts.SubstringMinLen {
		return Match{}, false
	}
	var b best
	for i := range pool.entries {
		e := &pool.entries[i]
		if !equalSets(q.numset, e.numset) {
			continue
		}
		short, long := q.Alnum, e.alnum
		if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
			short, long = long, short
		}
		if utf8.RuneCountInString(short) < s.opts.SubstringMinLen || !strings.Contains(long, short) {
			continue
		}
		if j := similarity.Jaccard(q.Key, e.key); j >= s.opts.JaccardMin {
			b.offer(e, j)
		}
	}
	return b.match(TechniqueSubstring)
}
