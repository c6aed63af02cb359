// Package cascade matches one raw ward name against a pool of canonical names.
// Techniques run in a fixed order from least to most likely to produce a false positive;
// the first technique that accepts a candidate wins.
package cascade

import (
	"sort"
	"strings"

	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/core/normalize"
)

// Technique names the matcher that produced a Match
type Technique string

const (
	// TechniqueExact compares case and whitespace folded names
	TechniqueExact Technique = "exact"
	// TechniqueAdminContext restricts the pool by the LGA hint before a similarity match
	TechniqueAdminContext Technique = "admin_context"
	// TechniquePhonetic needs Soundex or Metaphone agreement plus plain similarity
	TechniquePhonetic Technique = "phonetic"
	// TechniqueTokenReorder compares token sets
	TechniqueTokenReorder Technique = "token_reorder"
	// TechniqueAbbreviation expands local abbreviations then runs similarity
	TechniqueAbbreviation Technique = "abbreviation_expansion"
	// TechniqueCharset compares letters and digits only
	TechniqueCharset Technique = "charset_normalized"
	// TechniqueSubstring accepts containment guarded by character overlap
	TechniqueSubstring Technique = "substring"
)

// Order is the fixed precedence of the cascade
var Order = []Technique{
	TechniqueExact,
	TechniqueAdminContext,
	TechniquePhonetic,
	TechniqueTokenReorder,
	TechniqueAbbreviation,
	TechniqueCharset,
	TechniqueSubstring,
}

// Candidate is one canonical ward name with its LGA
type Candidate struct {
	Name string
	LGA  string
}

// Context carries optional disambiguation for a single lookup
type Context struct {
	LGAHint string
}

// Match is an accepted candidate
type Match struct {
	Canonical string
	LGA       string
	Technique Technique
	Score     float64
}

// Matcher is one technique of the cascade
type Matcher interface {
	Technique() Technique
	Attempt(q Query, pool *Pool, ctx Context) (Match, bool)
}

// Query is a raw name prepared once for all techniques
type Query struct {
	Raw      string
	Fold     string   // case and whitespace folded raw text, parenthetical included
	Key      string   // normalize.Normalize output
	Tokens   []string // canonical tokens of Key
	Alnum    string   // letters and digits of Tokens
	Numerals []string // numerals of Key as written
	hintKey  string
	numset   set
}

type entry struct {
	Candidate
	fold     string
	key      string
	lgaKey   string
	tokens   []string
	alnum    string
	numerals []string
	numset   set
}

// Pool is a prepared, read only candidate set. Safe for concurrent lookups.
type Pool struct {
	entries []entry
}

// Len reports the number of candidates
func (p *Pool) Len() int { return len(p.entries) }

// Cascade runs the techniques in Order
type Cascade struct {
	opts     Options
	norm     *normalize.Normalizer
	matchers []Matcher
}

// New builds a cascade; lx supplies the abbreviation table
func New(opts Options, lx *lexicon.Lexicon) *Cascade {
	opts = opts.withDefaults()
	c := &Cascade{opts: opts, norm: normalize.New()}
	c.matchers = []Matcher{
		exactMatcher{},
		adminMatcher{opts: opts},
		phoneticMatcher{opts: opts},
		tokenMatcher{},
		abbrevMatcher{opts: opts, lx: lx},
		charsetMatcher{},
		substringMatcher{opts: opts},
	}
	return c
}

// Options returns the effective thresholds
func (c *Cascade) Options() Options { return c.opts }

// Matchers returns the techniques in evaluation order
func (c *Cascade) Matchers() []Matcher { return c.matchers }

// NewPool prepares candidates. Order of the input does not affect results.
func (c *Cascade) NewPool(cands []Candidate) *Pool {
	p := &Pool{entries: make([]entry, 0, len(cands))}
	for _, cd := range cands {
		if strings.TrimSpace(cd.Name) == "" {
			continue
		}
		key := c.norm.Normalize(cd.Name)
		toks := normalize.CanonicalTokens(key)
		p.entries = append(p.entries, entry{
			Candidate: cd,
			fold:      normalize.Fold(cd.Name),
			key:       key,
			lgaKey:    c.norm.Normalize(cd.LGA),
			tokens:    toks,
			alnum:     normalize.AlnumOnly(strings.Join(toks, "")),
			numerals:  normalize.Numerals(key),
			numset:    numeralsOf(toSet(toks)),
		})
	}
	sort.Slice(p.entries, func(i, j int) bool {
		a, b := p.entries[i], p.entries[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.LGA < b.LGA
	})
	return p
}

// Prepare builds the Query for raw
func (c *Cascade) Prepare(raw string, ctx Context) Query {
	key := c.norm.Normalize(raw)
	toks := normalize.CanonicalTokens(key)
	return Query{
		Raw:      raw,
		Fold:     normalize.Fold(raw),
		Key:      key,
		Tokens:   toks,
		Alnum:    normalize.AlnumOnly(strings.Join(toks, "")),
		Numerals: normalize.Numerals(key),
		hintKey:  c.norm.Normalize(ctx.LGAHint),
		numset:   numeralsOf(toSet(toks)),
	}
}

// Resolve prepares candidates and runs the cascade once
func (c *Cascade) Resolve(raw string, candidates []Candidate, ctx Context) (Match, bool) {
	return c.ResolveIn(raw, c.NewPool(candidates), ctx)
}

// ResolveIn runs the cascade against a prepared pool
func (c *Cascade) ResolveIn(raw string, pool *Pool, ctx Context) (Match, bool) {
	if pool == nil || pool.Len() == 0 {
		return Match{}, false
	}
	q := c.Prepare(raw, ctx)
	if q.Fold == "" {
		return Match{}, false
	}
	for _, m := range c.matchers {
		if got, ok := m.Attempt(q, pool, ctx); ok {
			return got, true
		}
	}
	return Match{}, false
}

// best keeps the highest scoring entry; pool order breaks ties by name then LGA
type best struct {
	e     *entry
	score float64
}

func (b *best) offer(e *entry, score float64) {
	if b.e == nil || score > b.score {
		b.e, b.score = e, score
	}
}

func (b *best) match(t Technique) (Match, bool) {
	if b.e == nil {
		return Match{}, false
	}
	return Match{Canonical: b.e.Name, LGA: b.e.LGA, Technique: t, Score: b.score}, true
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
