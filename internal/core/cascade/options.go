package cascade

import "fmt"

// Options holds the per technique thresholds.
// The LGA and admin thresholds and the substring guard came from field tuning and
// are kept configurable.
type Options struct {
	// LGAHintMin is the token-sort similarity a candidate LGA needs against the hint
	LGAHintMin float64
	// AdminMin is the name similarity needed inside the LGA restricted pool
	AdminMin float64
	// PhoneticMin is the plain similarity required alongside a phonetic agreement
	PhoneticMin float64
	// AbbrevMin is the similarity needed after abbreviation expansion
	AbbrevMin float64
	// SubstringMinLen is the shortest cleaned name the substring technique considers
	SubstringMinLen int
	// JaccardMin is the character overlap guarding substring matches
	JaccardMin float64
}

// DefaultOptions returns the field-tuned thresholds
func DefaultOptions() Options {
	return Options{
		LGAHintMin:      0.85,
		AdminMin:        0.70,
		PhoneticMin:     0.60,
		AbbrevMin:       0.75,
		SubstringMinLen: 5,
		JaccardMin:      0.70,
	}
}

// withDefaults fills zero fields
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LGAHintMin == 0 {
		o.LGAHintMin = d.LGAHintMin
	}
	if o.AdminMin == 0 {
		o.AdminMin = d.AdminMin
	}
	if o.PhoneticMin == 0 {
		o.PhoneticMin = d.PhoneticMin
	}
	if o.AbbrevMin == 0 {
		o.AbbrevMin = d.AbbrevMin
	}
	if o.SubstringMinLen == 0 {
		o.SubstringMinLen = d.SubstringMinLen
	}
	if o.JaccardMin == 0 {
		o.JaccardMin = d.JaccardMin
	}
	return o
}

// Validate rejects thresholds outside (0,1] and a negative substring length
func (o Options) Validate() error {
	for name, v := range map[string]float64{
		"lga_hint_min": o.LGAHintMin,
		"admin_min":    o.AdminMin,
		"phonetic_min": o.PhoneticMin,
		"abbrev_min":   o.AbbrevMin,
		"jaccard_min":  o.JaccardMin,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("cascade: %s must be within [0,1], got %v", name, v)
		}
	}
	if o.SubstringMinLen < 0 {
		return fmt.Errorf("cascade: substring_min_len must be >= 0, got %d", o.SubstringMinLen)
	}
	return nil
}
