package selection

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/core/normalize"
	"wardtpr/internal/core/similarity"
)

// Kind tags an Outcome
type Kind int

// Outcome kinds
const (
	KindSelected Kind = iota
	KindDeviation
	KindNav
	KindAmbiguous
)

// String names the kind
func (k Kind) String() string {
	switch k {
	case KindSelected:
		return "selected"
	case KindDeviation:
		return "deviation"
	case KindNav:
		return "nav"
	case KindAmbiguous:
		return "ambiguous"
	}
	return "unknown"
}

// Nav is a navigation command
type Nav string

// Navigation commands
const (
	NavBack   Nav = lexicon.NavBack
	NavStatus Nav = lexicon.NavStatus
	NavSkip   Nav = lexicon.NavSkip
	NavHelp   Nav = lexicon.NavHelp
)

// Outcome is the parse of one utterance at one stage.
// Only the fields matching Kind are set.
type Outcome struct {
	Kind       Kind
	Option     Option   // KindSelected
	Nav        Nav      // KindNav
	Topic      string   // KindDeviation and NavHelp, the raw utterance
	Candidates []Option // KindAmbiguous, best first

	// Rest is the text after a navigation command in a multi-part message,
	// still to be read once the command has run
	Rest string
}

// Options tunes fuzzy answer matching
type Options struct {
	// MinScore is the lowest fuzzy score accepted as an answer
	MinScore float64
	// Gap is the margin the best option needs over the runner-up
	Gap float64
}

// DefaultOptions returns the parser defaults
func DefaultOptions() Options { return Options{MinScore: 0.75, Gap: 0.08} }

// Parser is read only after New and safe for concurrent use
type Parser struct {
	lx   *lexicon.Lexicon
	opts Options
	nav  []navPhrase
}

type navPhrase struct {
	nav    Nav
	phrase string
}

// navPriority breaks equal length nav matches
var navPriority = map[Nav]int{NavHelp: 0, NavStatus: 1, NavBack: 2, NavSkip: 3}

// New builds a parser over the lexicon
func New(lx *lexicon.Lexicon, opts Options) *Parser {
	if opts.MinScore == 0 {
		opts.MinScore = DefaultOptions().MinScore
	}
	if opts.Gap == 0 {
		opts.Gap = DefaultOptions().Gap
	}
	p := &Parser{lx: lx, opts: opts}
	for nav, phrases := range lx.Navigation {
		for _, ph := range phrases {
			if c := clean(ph); c != "" {
				p.nav = append(p.nav, navPhrase{nav: Nav(nav), phrase: c})
			}
		}
	}
	// longest phrase first so "go back" beats "back"
	sort.Slice(p.nav, func(i, j int) bool {
		a, b := p.nav[i], p.nav[j]
		if len(a.phrase) != len(b.phrase) {
			return len(a.phrase) > len(b.phrase)
		}
		if navPriority[a.nav] != navPriority[b.nav] {
			return navPriority[a.nav] < navPriority[b.nav]
		}
		return a.phrase < b.phrase
	})
	return p
}

// Lexicon exposes the word lists the parser was built with
func (p *Parser) Lexicon() *lexicon.Lexicon { return p.lx }

// Options returns the stage's options in menu order
func (p *Parser) Options(stage Stage) []Option { return OptionsFor(stage, p.lx) }

// Parse reads one utterance at stage against the given options.
// Order: exact synonym or menu number, fuzzy with a winning margin, navigation, deviation.
func (p *Parser) Parse(utterance string, stage Stage, options []Option) Outcome {
	full := clean(utterance)
	if full == "" {
		return Outcome{Kind: KindDeviation, Topic: strings.TrimSpace(utterance)}
	}
	content := p.stripFillers(full)

	if opt, ok := exact(full, content, options); ok {
		return Outcome{Kind: KindSelected, Option: opt}
	}
	if out, ok := p.fuzzy(content, options); ok {
		return out
	}
	if nav, ok := p.navigation(full); ok {
		o := Outcome{Kind: KindNav, Nav: nav}
		if nav == NavHelp {
			o.Topic = strings.TrimSpace(utterance)
		}
		return o
	}
	return Outcome{Kind: KindDeviation, Topic: strings.TrimSpace(utterance)}
}

func exact(full, content string, options []Option) (Option, bool) {
	if n, err := strconv.Atoi(content); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	for _, opt := range options {
		for _, syn := range opt.Synonyms {
			c := clean(syn)
			if c == full || c == content {
				return opt, true
			}
		}
	}
	return Option{}, false
}

type scored struct {
	opt   Option
	score float64
}

func (p *Parser) fuzzy(content string, options []Option) (Outcome, bool) {
	if content == "" {
		return Outcome{}, false
	}
	ctoks := strings.Fields(content)
	vocab := vocabulary(options)
	ranked := make([]scored, 0, len(options))
	for _, opt := range options {
		var s float64
		for _, syn := range opt.Synonyms {
			s = max(s, phraseScore(content, ctoks, clean(syn), vocab))
		}
		if s >= p.opts.MinScore {
			ranked = append(ranked, scored{opt: opt, score: s})
		}
	}
	if len(ranked) == 0 {
		return Outcome{}, false
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) == 1 || ranked[0].score-ranked[1].score > p.opts.Gap {
		return Outcome{Kind: KindSelected, Option: ranked[0].opt}, true
	}
	out := Outcome{Kind: KindAmbiguous}
	for _, r := range ranked {
		if ranked[0].score-r.score <= p.opts.Gap {
			out.Candidates = append(out.Candidates, r.opt)
		}
	}
	return out, true
}

// vocabulary is every token used by the synonyms of options
func vocabulary(options []Option) map[string]bool {
	out := make(map[string]bool)
	for _, opt := range options {
		for _, syn := range opt.Synonyms {
			for _, t := range strings.Fields(clean(syn)) {
				out[t] = true
			}
		}
	}
	return out
}

// phraseScore scores content against one synonym. Containment only counts when every
// other content token is a number or a word of the stage's synonyms, so
// "children under 5" reads as under 5 while "all right" is not an answer.
func phraseScore(content string, ctoks []string, syn string, vocab map[string]bool) float64 {
	if syn == "" {
		return 0
	}
	s := similarity.Best(content, syn)
	if containsPhrase(content, syn) && onlyVocabulary(ctoks, strings.Fields(syn), vocab) {
		s = max(s, 0.8+0.2*float64(len(syn))/float64(len(content)))
	}
	// a single content word against a single word synonym tolerates typos
	if len(ctoks) == 1 && !strings.Contains(syn, " ") && len(syn) >= 3 {
		s = max(s, similarity.Ratio(ctoks[0], syn))
	}
	return s
}

// onlyVocabulary reports whether the tokens of ctoks outside stoks are all numbers or in vocab
func onlyVocabulary(ctoks, stoks []string, vocab map[string]bool) bool {
	left := make(map[string]int, len(stoks))
	for _, t := range stoks {
		left[t]++
	}
	for _, t := range ctoks {
		if left[t] > 0 {
			left[t]--
			continue
		}
		if _, err := strconv.Atoi(t); err == nil || vocab[t] {
			continue
		}
		return false
	}
	return true
}

func (p *Parser) navigation(full string) (Nav, bool) {
	for _, np := range p.nav {
		if containsPhrase(full, np.phrase) {
			return np.nav, true
		}
	}
	return "", false
}

func (p *Parser) stripFillers(full string) string {
	toks := strings.Fields(full)
	out := toks[:0:0]
	for _, t := range toks {
		if !p.lx.IsFiller(t) {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// containsPhrase reports whether phrase occurs in s on token boundaries
func containsPhrase(s, phrase string) bool {
	return strings.Contains(" "+s+" ", " "+phrase+" ")
}

// clean folds case and width, keeps letters, digits, '<' and '+', and turns
// everything else into single spaces
func clean(s string) string {
	f := normalize.Fold(s)
	f = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '<', r == '+':
			return r
		case r == '\'':
			return -1
		}
		return ' '
	}, f)
	return strings.Join(strings.Fields(f), " ")
}
