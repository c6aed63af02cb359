package tpr

import (
	"encoding/json"
	"strings"

	"wardtpr/internal/platform/validate"
)

// Drop reasons reported in IntakeSummary
const (
	ReasonMalformed             = "malformed"
	ReasonMissingWard           = "missing_ward_name"
	ReasonUnknownFacilityLevel  = "unknown_facility_level"
	ReasonPositiveExceedsTested = "positive_exceeds_tested"
	ReasonInvalid               = "invalid"
)

// IntakeSummary counts rows kept and dropped at load
type IntakeSummary struct {
	Received int            `json:"received"`
	Accepted int            `json:"accepted"`
	Dropped  int            `json:"dropped"`
	Reasons  map[string]int `json:"reasons,omitempty"`
}

func (s *IntakeSummary) drop(reason string) {
	s.Dropped++
	if s.Reasons == nil {
		s.Reasons = make(map[string]int, 4)
	}
	s.Reasons[reason]++
}

// Intake keeps rows that satisfy the count invariants and reports the rest.
// Facility levels are lowercased; nothing else is rewritten.
func Intake(records []RawRecord) ([]RawRecord, IntakeSummary) {
	sum := IntakeSummary{Received: len(records)}
	out := make([]RawRecord, 0, len(records))
	for _, r := range records {
		r.FacilityLevel = FacilityLevel(strings.ToLower(strings.TrimSpace(string(r.FacilityLevel))))
		if err := validate.Struct(r); err != nil {
			sum.drop(reasonFor(err))
			continue
		}
		out = append(out, r)
	}
	sum.Accepted = len(out)
	return out, sum
}

// DecodeRecords decodes rows one at a time so a single non-numeric count drops
// only its own row, then runs Intake on the rest
func DecodeRecords(raws []json.RawMessage) ([]RawRecord, IntakeSummary) {
	decoded := make([]RawRecord, 0, len(raws))
	malformed := 0
	for _, raw := range raws {
		var r RawRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			malformed++
			continue
		}
		decoded = append(decoded, r)
	}
	out, sum := Intake(decoded)
	sum.Received += malformed
	for range malformed {
		sum.drop(ReasonMalformed)
	}
	return out, sum
}

func reasonFor(err error) string {
	_, tag, _ := validate.FirstError(err)
	switch tag {
	case "notblank":
		return ReasonMissingWard
	case "oneof":
		return ReasonUnknownFacilityLevel
	case "ltefield":
		return ReasonPositiveExceedsTested
	}
	return ReasonInvalid
}
