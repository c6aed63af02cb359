// Package tpr computes ward level test positivity rates from facility rows.
package tpr

import (
	"strings"

	perr "wardtpr/internal/platform/errors"
)

// FacilityLevel is the tier of the reporting facility
type FacilityLevel string

// Facility levels; LevelAll only appears in a Selection
const (
	LevelPrimary   FacilityLevel = "primary"
	LevelSecondary FacilityLevel = "secondary"
	LevelTertiary  FacilityLevel = "tertiary"
	LevelAll       FacilityLevel = "all"
)

// AgeGroup is the patient group a count belongs to
type AgeGroup string

// Age groups
const (
	AgeAll      AgeGroup = "all_ages"
	AgeUnder5   AgeGroup = "under5"
	AgeOver5    AgeGroup = "over5"
	AgePregnant AgeGroup = "pregnant_women"
)

// TestMethod is the diagnostic used
type TestMethod string

// Test methods; MethodBoth only appears in a Selection
const (
	MethodRDT        TestMethod = "rdt"
	MethodMicroscopy TestMethod = "microscopy"
	MethodBoth       TestMethod = "both"
)

// FacilityLevels lists selectable levels in menu order
var FacilityLevels = []FacilityLevel{LevelPrimary, LevelSecondary, LevelTertiary, LevelAll}

// AgeGroups lists selectable age groups in menu order
var AgeGroups = []AgeGroup{AgeAll, AgeUnder5, AgeOver5, AgePregnant}

// TestMethods lists selectable methods in menu order
var TestMethods = []TestMethod{MethodRDT, MethodMicroscopy, MethodBoth}

// specificGroups are the groups that add up to all_ages
var specificGroups = []AgeGroup{AgeUnder5, AgeOver5, AgePregnant}

// Valid reports whether l is a known level
func (l FacilityLevel) Valid() bool {
	switch l {
	case LevelPrimary, LevelSecondary, LevelTertiary, LevelAll:
		return true
	}
	return false
}

// Valid reports whether a is a known group
func (a AgeGroup) Valid() bool {
	switch a {
	case AgeAll, AgeUnder5, AgeOver5, AgePregnant:
		return true
	}
	return false
}

// Valid reports whether m is a known method
func (m TestMethod) Valid() bool {
	switch m {
	case MethodRDT, MethodMicroscopy, MethodBoth:
		return true
	}
	return false
}

// ParseFacilityLevel accepts the wire value case-insensitively
func ParseFacilityLevel(s string) (FacilityLevel, error) {
	l := FacilityLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", perr.InvalidArgf("unknown facility level %q", s)
	}
	return l, nil
}

// ParseAgeGroup accepts the wire value case-insensitively
func ParseAgeGroup(s string) (AgeGroup, error) {
	a := AgeGroup(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", perr.InvalidArgf("unknown age group %q", s)
	}
	return a, nil
}

// ParseTestMethod accepts the wire value case-insensitively
func ParseTestMethod(s string) (TestMethod, error) {
	m := TestMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", perr.InvalidArgf("unknown test method %q", s)
	}
	return m, nil
}

// Counts is one tested/positive pair
type Counts struct {
	Tested   uint `json:"tested"`
	Positive uint `json:"positive" validate:"ltefield=Tested"`
}

// Rate is Positive/Tested; ok is false when nothing was tested
func (c Counts) Rate() (float64, bool) {
	if c.Tested == 0 {
		return 0, false
	}
	return float64(c.Positive) / float64(c.Tested), true
}

func (c Counts) add(o Counts) Counts {
	return Counts{Tested: c.Tested + o.Tested, Positive: c.Positive + o.Positive}
}

// MethodCounts holds one age group's counts per method
type MethodCounts struct {
	RDT        Counts `json:"rdt"`
	Microscopy Counts `json:"microscopy"`
}

// Of returns the counts for a single method
func (mc MethodCounts) Of(m TestMethod) Counts {
	if m == MethodMicroscopy {
		return mc.Microscopy
	}
	return mc.RDT
}

// RawRecord is one facility row
type RawRecord struct {
	WardNameRaw   string        `json:"ward_name_raw" validate:"notblank"`
	LGA           string        `json:"lga"`
	State         string        `json:"state"`
	FacilityName  string        `json:"facility_name,omitempty"`
	FacilityLevel FacilityLevel `json:"facility_level" validate:"oneof=primary secondary tertiary"`

	AllAges       MethodCounts `json:"all_ages"`
	Under5        MethodCounts `json:"under5"`
	Over5         MethodCounts `json:"over5"`
	PregnantWomen MethodCounts `json:"pregnant_women"`
}

// Cell returns the counts reported for a specific age group
func (r RawRecord) Cell(a AgeGroup) MethodCounts {
	switch a {
	case AgeUnder5:
		return r.Under5
	case AgeOver5:
		return r.Over5
	case AgePregnant:
		return r.PregnantWomen
	}
	return r.AllAges
}

// Counts returns the counts of one age group and method.
// For all_ages the specific groups are summed per method; the explicit all_ages
// cell is used only when no specific group tested with that method.
func (r RawRecord) Counts(a AgeGroup, m TestMethod) Counts {
	if a != AgeAll {
		return r.Cell(a).Of(m)
	}
	var sum Counts
	for _, g := range specificGroups {
		sum = sum.add(r.Cell(g).Of(m))
	}
	if sum.Tested > 0 {
		return sum
	}
	return r.AllAges.Of(m)
}

// Selection is the analyst's choice of filter
type Selection struct {
	FacilityLevel FacilityLevel `json:"facility_level"`
	AgeGroup      AgeGroup      `json:"age_group"`
	TestMethod    TestMethod    `json:"test_method"`
}

// Validate rejects zero or unknown values
func (s Selection) Validate() error {
	switch {
	case !s.FacilityLevel.Valid():
		return perr.WithField(perr.InvalidArgf("unknown facility level %q", s.FacilityLevel), "facility_level")
	case !s.AgeGroup.Valid():
		return perr.WithField(perr.InvalidArgf("unknown age group %q", s.AgeGroup), "age_group")
	case !s.TestMethod.Valid():
		return perr.WithField(perr.InvalidArgf("unknown test method %q", s.TestMethod), "test_method")
	}
	return nil
}

// WardAggregate is the computed rate for one raw ward name
type WardAggregate struct {
	WardNameRaw   string  `json:"ward_name_raw"`
	LGA           string  `json:"lga"`
	State         string  `json:"state"`
	TestedTotal   uint    `json:"tested_total"`
	PositiveTotal uint    `json:"positive_total"`
	TPRPercent    float64 `json:"tpr_percent"`
	TPRRaw        float64 `json:"-"`
}
