package module

import (
	"wardtpr/internal/core/cascade"
	"wardtpr/internal/platform/config"
)

// Options controls the resolver
type Options struct {
	Workers int
	Cascade cascade.Options
}

// FromConfig reads CORE_RESOLVE_* relative to the API config
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("RESOLVE_")
	d := cascade.DefaultOptions()
	return Options{
		Workers: c.MayInt("WORKERS", 0),
		Cascade: cascade.Options{
			LGAHintMin:      c.MayFloat64("LGA_HINT_MIN", d.LGAHintMin),
			AdminMin:        c.MayFloat64("ADMIN_MIN", d.AdminMin),
			PhoneticMin:     c.MayFloat64("PHONETIC_MIN", d.PhoneticMin),
			AbbrevMin:       c.MayFloat64("ABBREV_MIN", d.AbbrevMin),
			SubstringMinLen: c.MayInt("SUBSTRING_MIN_LEN", d.SubstringMinLen),
			JaccardMin:      c.MayFloat64("JACCARD_MIN", d.JaccardMin),
		},
	}
}
