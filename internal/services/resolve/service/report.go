package service

import (
	"sort"
	"strings"

	"wardtpr/internal/core/cascade"
	str "wardtpr/internal/platform/strings"
	"wardtpr/internal/services/resolve/domain"
)

// notes explain each technique to the analyst reading the report
var notes = map[cascade.Technique]string{
	cascade.TechniqueExact:        "Exact match after case and spacing folding.",
	cascade.TechniqueAdminContext: "Matched inside the LGA named in brackets; confirm the LGA.",
	cascade.TechniquePhonetic:     "Sounds alike and is spelled similarly; worth a glance.",
	cascade.TechniqueTokenReorder: "Same words in another order, or with locale and ward tokens removed.",
	cascade.TechniqueAbbreviation: "Matched after expanding local abbreviations.",
	cascade.TechniqueCharset:      "Matched ignoring spaces and punctuation.",
	cascade.TechniqueSubstring:    "One name contains the other; lowest confidence, review before use.",
}

const unresolvedNote = "No canonical ward matched; kept in the table and left off the map."

// ConfidenceNote returns the analyst facing note for a technique
func ConfidenceNote(t cascade.Technique) string { return notes[t] }

// Report holds one Result per distinct raw name, ordered by raw name. Read only.
type Report struct {
	State string

	results []domain.Result
	index   map[string]int
	counts  map[cascade.Technique]int
}

func newReport(state string, results []domain.Result) *Report {
	sort.Slice(results, func(i, j int) bool { return results[i].RawName < results[j].RawName })
	r := &Report{
		State:   state,
		results: results,
		index:   make(map[string]int, len(results)),
		counts:  map[cascade.Technique]int{},
	}
	for i, res := range results {
		r.index[res.RawName] = i
		if res.Technique != nil {
			r.counts[cascade.Technique(*res.Technique)]++
		}
	}
	return r
}

func resultOf(raw string, m cascade.Match, ok bool) domain.Result {
	if !ok {
		return domain.Result{RawName: raw, ConfidenceNote: unresolvedNote}
	}
	tech := string(m.Technique)
	return domain.Result{
		RawName:        raw,
		Canonical:      str.Ptr(m.Canonical),
		LGA:            str.Ptr(m.LGA),
		Technique:      &tech,
		Score:          m.Score,
		ConfidenceNote: notes[m.Technique],
	}
}

// Len is the number of distinct raw names
func (r *Report) Len() int { return len(r.results) }

// Results returns a copy of every result
func (r *Report) Results() []domain.Result {
	return append([]domain.Result(nil), r.results...)
}

// Resolved returns the matched results
func (r *Report) Resolved() []domain.Result {
	var out []domain.Result
	for _, res := range r.results {
		if res.Resolved() {
			out = append(out, res)
		}
	}
	return out
}

// Unresolved returns raw names with no match
func (r *Report) Unresolved() []string {
	out := []string{}
	for _, res := range r.results {
		if !res.Resolved() {
			out = append(out, res.RawName)
		}
	}
	return out
}

// Lookup finds the result for raw, ignoring surrounding spaces
func (r *Report) Lookup(raw string) (domain.Result, bool) {
	i, ok := r.index[strings.TrimSpace(raw)]
	if !ok {
		return domain.Result{}, false
	}
	return r.results[i], true
}

// Mapping is raw name -> canonical name for resolved names only
func (r *Report) Mapping() map[string]string {
	out := make(map[string]string, len(r.results))
	for _, res := range r.results {
		if res.Resolved() {
			out[res.RawName] = *res.Canonical
		}
	}
	return out
}

// Counts is the number of matches per technique
func (r *Report) Counts() map[cascade.Technique]int {
	out := make(map[cascade.Technique]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// DTO renders the report for the wire
func (r *Report) DTO() domain.ReportDTO {
	techs := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		techs[string(k)] = v
	}
	return domain.ReportDTO{
		State:      r.State,
		Results:    r.Results(),
		Resolved:   len(r.results) - len(r.Unresolved()),
		Unresolved: r.Unresolved(),
		Techniques: techs,
	}
}
