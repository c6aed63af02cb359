// Package lexicon loads the embedded word lists used to clean ward names and read user answers:
// abbreviation expansions, per-stage option synonyms and navigation phrases.
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed lexicon.json
var embedded []byte

// Stage keys used in the options block
const (
	StageFacilityLevel = "facility_level"
	StageAgeGroup      = "age_group"
	StageTestMethod    = "test_method"
)

// Navigation keys
const (
	NavBack   = "back"
	NavStatus = "status"
	NavSkip   = "skip"
	NavHelp   = "help"
)

type rawAbbrev struct {
	Tokens   map[string]string `json:"tokens"`
	Prefixes map[string]string `json:"prefixes"`
}

type rawOption struct {
	Label    string   `json:"label"`
	Synonyms []string `json:"synonyms"`
}

type rawStage struct {
	Prompt  string               `json:"prompt"`
	Help    string               `json:"help"`
	Options map[string]rawOption `json:"options"`
}

type rawLexicon struct {
	Version       int                 `json:"version"`
	Meta          map[string]any      `json:"meta"`
	Abbreviations rawAbbrev           `json:"abbreviations"`
	Stages        map[string]rawStage `json:"stages"`
	Navigation    map[string][]string `json:"navigation"`
	Fillers       []string            `json:"fillers"`
}

// StageText is the prompt and help shown for one stage
type StageText struct {
	Prompt string
	Help   string
	// option value -> display label
	Labels map[string]string
}

// Lexicon is read only after Load and safe to share
type Lexicon struct {
	Version int
	Meta    map[string]any

	// whole token abbreviations, lowercased
	Tokens map[string]string
	// single letter locative prefixes written as "x/rest"
	Prefixes map[string]string

	// stage -> option value -> lowercased synonyms (value and label included)
	Options map[string]map[string][]string

	// stage -> prompt, help and labels
	Stages map[string]StageText

	// nav key -> lowercased phrases
	Navigation map[string][]string

	// words ignored around an answer ("please", "i want")
	Fillers map[string]struct{}
}

// Load parses the embedded lexicon.json
func Load() (*Lexicon, error) {
	return Parse(embedded)
}

// Parse builds a Lexicon from raw json
func Parse(b []byte) (*Lexicon, error) {
	var rl rawLexicon
	if err := json.Unmarshal(b, &rl); err != nil {
		return nil, fmt.Errorf("lexicon: parse lexicon.json: %w", err)
	}
	if rl.Version != 1 {
		return nil, fmt.Errorf("lexicon: unsupported lexicon.json version %d (want 1)", rl.Version)
	}

	lx := &Lexicon{
		Version:    rl.Version,
		Meta:       rl.Meta,
		Tokens:     lowerMap(rl.Abbreviations.Tokens),
		Prefixes:   lowerMap(rl.Abbreviations.Prefixes),
		Options:    make(map[string]map[string][]string, len(rl.Stages)),
		Stages:     make(map[string]StageText, len(rl.Stages)),
		Navigation: make(map[string][]string, len(rl.Navigation)),
		Fillers:    make(map[string]struct{}, len(rl.Fillers)),
	}

	for stage, st := range rl.Stages {
		stage = strings.ToLower(strings.TrimSpace(stage))
		m := make(map[string][]string, len(st.Options))
		text := StageText{Prompt: st.Prompt, Help: st.Help, Labels: make(map[string]string, len(st.Options))}
		for val, opt := range st.Options {
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}
			m[val] = dedupeLower(append([]string{strings.ReplaceAll(val, "_", " "), opt.Label}, opt.Synonyms...))
			text.Labels[val] = opt.Label
			if text.Labels[val] == "" {
				text.Labels[val] = val
			}
		}
		lx.Options[stage] = m
		lx.Stages[stage] = text
	}
	for _, f := range dedupeLower(rl.Fillers) {
		lx.Fillers[f] = struct{}{}
	}
	for nav, phrases := range rl.Navigation {
		nav = strings.ToLower(strings.TrimSpace(nav))
		switch nav {
		case NavBack, NavStatus, NavSkip, NavHelp:
		default:
			return nil, fmt.Errorf("lexicon: unknown navigation key %q", nav)
		}
		lx.Navigation[nav] = dedupeLower(phrases)
	}
	return lx, nil
}

// Label returns the display label of an option value
func (lx *Lexicon) Label(stage, value string) string {
	if l, ok := lx.Stages[stage].Labels[value]; ok {
		return l
	}
	return value
}

// IsFiller reports whether a lowercased word carries no answer
func (lx *Lexicon) IsFiller(word string) bool {
	_, ok := lx.Fillers[word]
	return ok
}

// Synonyms returns the phrases that select value at stage
func (lx *Lexicon) Synonyms(stage, value string) []string {
	return lx.Options[stage][value]
}

// Expand rewrites abbreviated tokens of a normalized name.
// "t/wada" becomes "tudun wada" and "yola n" becomes "yola north".
func (lx *Lexicon) Expand(name string) string {
	fields := strings.Fields(name)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if i := strings.IndexByte(f, '/'); i > 0 {
			if long, ok := lx.Prefixes[f[:i]]; ok {
				out = append(out, long)
				if rest := f[i+1:]; rest != "" {
					out = append(out, rest)
				}
				continue
			}
		}
		if long, ok := lx.Tokens[strings.TrimSuffix(f, ".")]; ok {
			out = append(out, long)
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

func lowerMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.ToLower(strings.TrimSpace(v))
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// dedupeLower lowercases, trims and dedupes while keeping a stable order
func dedupeLower(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

