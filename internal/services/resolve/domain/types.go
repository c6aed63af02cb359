// Package domain holds ward name resolution DTOs and ports
package domain

// ResolveInput asks for raw names to be matched against one state's boundaries
type ResolveInput struct {
	State    string   `json:"state" validate:"notblank,max=100" example:"Rivers"`
	RawNames []string `json:"raw_names" validate:"required,min=1,max=5000,dive,max=300" example:"ri Port-Harcourt Ward 2"`
}

// Result is the provenance of one raw name. Canonical, LGA and Technique are
// null when nothing matched.
type Result struct {
	RawName        string  `json:"raw_name"`
	Canonical      *string `json:"canonical"`
	LGA            *string `json:"lga"`
	Technique      *string `json:"technique"`
	Score          float64 `json:"score"`
	ConfidenceNote string  `json:"confidence_note"`
}

// Resolved reports whether a canonical name was found
func (r Result) Resolved() bool { return r.Canonical != nil }

// ReportDTO is the wire form of a resolution report
type ReportDTO struct {
	State      string         `json:"state"`
	Results    []Result       `json:"results"`
	Resolved   int            `json:"resolved"`
	Unresolved []string       `json:"unresolved"`
	Techniques map[string]int `json:"techniques"`
}
