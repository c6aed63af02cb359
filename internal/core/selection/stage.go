// Package selection maps free text answers onto the options of a workflow stage.
package selection

import (
	"strconv"

	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/core/tpr"
)

// Stage is a step of the TPR selection workflow
type Stage int

// Stages in workflow order
const (
	StageFacilityLevel Stage = iota
	StageAgeGroup
	StageTestMethod
	StageComplete
)

// String is the wire name of the stage
func (s Stage) String() string {
	switch s {
	case StageFacilityLevel:
		return lexicon.StageFacilityLevel
	case StageAgeGroup:
		return lexicon.StageAgeGroup
	case StageTestMethod:
		return lexicon.StageTestMethod
	case StageComplete:
		return "complete"
	}
	return "stage(" + strconv.Itoa(int(s)) + ")"
}

// MarshalText renders the wire name
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Next returns the following stage; Complete is terminal
func (s Stage) Next() Stage {
	if s >= StageComplete {
		return StageComplete
	}
	return s + 1
}

// Prev returns the previous stage; FacilityLevel has none
func (s Stage) Prev() Stage {
	if s <= StageFacilityLevel {
		return StageFacilityLevel
	}
	return s - 1
}

// Option is one closed choice of a stage
type Option struct {
	Value    string   `json:"value"`
	Label    string   `json:"label"`
	Synonyms []string `json:"-"`
}

// OptionsFor lists a stage's options in menu order
func OptionsFor(stage Stage, lx *lexicon.Lexicon) []Option {
	var values []string
	switch stage {
	case StageFacilityLevel:
		for _, v := range tpr.FacilityLevels {
			values = append(values, string(v))
		}
	case StageAgeGroup:
		for _, v := range tpr.AgeGroups {
			values = append(values, string(v))
		}
	case StageTestMethod:
		for _, v := range tpr.TestMethods {
			values = append(values, string(v))
		}
	default:
		return nil
	}
	key := stage.String()
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: lx.Label(key, v), Synonyms: lx.Synonyms(key, v)})
	}
	return out
}
