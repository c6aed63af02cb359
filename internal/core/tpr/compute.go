package tpr

import (
	"math"
	"sort"
	"strings"

	perr "wardtpr/internal/platform/errors"
)

// Result is one calculation run
type Result struct {
	Selection Selection       `json:"selection"`
	Wards     []WardAggregate `json:"wards"`
	NoData    []string        `json:"no_data"`
	Intake    IntakeSummary   `json:"intake"`
}

// Empty reports whether the selection left no ward with tests
func (r Result) Empty() bool { return len(r.Wards) == 0 }

// EmptyErr returns the user facing "no data" outcome, or nil
func (r Result) EmptyErr() error {
	if !r.Empty() {
		return nil
	}
	return perr.Newf(perr.ErrorCodeEmptySelection,
		"no data for facility level %s, age group %s, method %s",
		r.Selection.FacilityLevel, r.Selection.AgeGroup, r.Selection.TestMethod)
}

type wardAcc struct {
	lga, state string
	rdt, micro Counts // all_ages with both methods: per method totals
	picked     Counts // every other selection
}

// Compute aggregates facility rows to ward rates.
//
// With both methods and all_ages the method totals are summed per ward first and the
// higher ward rate wins. With both methods and a specific age group the higher rate is
// picked per facility row and the winning counts are summed. A single method skips the max.
// Invalid rows are dropped and reported in Result.Intake.
func Compute(records []RawRecord, sel Selection) (Result, error) {
	if err := sel.Validate(); err != nil {
		return Result{}, perr.WithOp(err, "tpr.Compute")
	}
	valid, summary := Intake(records)

	wards := make(map[string]*wardAcc, len(valid))
	order := make([]string, 0, len(valid))
	for _, r := range valid {
		key := strings.TrimSpace(r.WardNameRaw)
		acc, ok := wards[key]
		if !ok {
			acc = &wardAcc{lga: strings.TrimSpace(r.LGA), state: strings.TrimSpace(r.State)}
			wards[key] = acc
			order = append(order, key)
		}
		if sel.FacilityLevel != LevelAll && r.FacilityLevel != sel.FacilityLevel {
			continue
		}
		switch {
		case sel.TestMethod != MethodBoth:
			acc.picked = acc.picked.add(r.Counts(sel.AgeGroup, sel.TestMethod))
		case sel.AgeGroup == AgeAll:
			acc.rdt = acc.rdt.add(r.Counts(AgeAll, MethodRDT))
			acc.micro = acc.micro.add(r.Counts(AgeAll, MethodMicroscopy))
		default:
			acc.picked = acc.picked.add(higher(r.Counts(sel.AgeGroup, MethodRDT), r.Counts(sel.AgeGroup, MethodMicroscopy)))
		}
	}

	res := Result{Selection: sel, Wards: []WardAggregate{}, NoData: []string{}, Intake: summary}
	for _, key := range order {
		acc := wards[key]
		c := acc.picked
		if sel.TestMethod == MethodBoth && sel.AgeGroup == AgeAll {
			c = higher(acc.rdt, acc.micro)
		}
		if c.Tested == 0 {
			res.NoData = append(res.NoData, key)
			continue
		}
		raw := 100 * float64(c.Positive) / float64(c.Tested)
		res.Wards = append(res.Wards, WardAggregate{
			WardNameRaw:   key,
			LGA:           acc.lga,
			State:         acc.state,
			TestedTotal:   c.Tested,
			PositiveTotal: c.Positive,
			TPRPercent:    Round1(raw),
			TPRRaw:        raw,
		})
	}

	sort.SliceStable(res.Wards, func(i, j int) bool {
		a, b := res.Wards[i], res.Wards[j]
		if a.TPRRaw != b.TPRRaw {
			return a.TPRRaw > b.TPRRaw
		}
		return a.WardNameRaw < b.WardNameRaw
	})
	sort.Strings(res.NoData)
	return res, nil
}

// higher returns the counts with the higher rate. A method with no tests never wins;
// equal rates prefer more tests, then RDT.
func higher(rdt, micro Counts) Counts {
	if micro.Tested == 0 {
		return rdt
	}
	if rdt.Tested == 0 {
		return micro
	}
	// compare pM/tM with pR/tR without floats
	l := uint64(micro.Positive) * uint64(rdt.Tested)
	r := uint64(rdt.Positive) * uint64(micro.Tested)
	switch {
	case l > r:
		return micro
	case l < r:
		return rdt
	case micro.Tested > rdt.Tested:
		return micro
	}
	return rdt
}

// Round1 rounds to one decimal place, half away from zero
func Round1(v float64) float64 { return math.Round(v*10) / 10 }
