package selection

import (
	"regexp"
	"strings"
)

var (
	hardSep = regexp.MustCompile(`(?i)[,;\n]+|\s+(?:and\s+)?then\s+`)
	andSep  = regexp.MustCompile(`(?i)\s+and\s+`)
)

// ParseAll reads a message that may answer several stages in order, starting at from.
// "primary, under 5, rdt" yields three Selected outcomes. The first part that is not a
// selection ends the run and is returned last: a Deviation carries that part and
// everything after it as Topic, a Nav carries the parts after it as Rest, and an
// Ambiguous part lets the caller re-prompt. Text left over once every stage is answered
// comes back as a trailing Deviation.
// A message whose first part is neither a selection nor a command is parsed as one
// answer to from.
func (p *Parser) ParseAll(utterance string, from Stage) []Outcome {
	if from >= StageComplete {
		return nil
	}
	single := []Outcome{p.Parse(utterance, from, p.Options(from))}

	if parts := splitOn(hardSep, utterance); len(parts) > 1 {
		if outs := p.sequence(parts, from); len(outs) > 0 {
			return outs
		}
		return single
	}
	// "and" also joins single answers ("rdt and microscopy"); split only if every part selects
	if parts := splitOn(andSep, utterance); len(parts) > 1 {
		if outs := p.sequence(parts, from); len(outs) == len(parts) && allSelected(outs) {
			return outs
		}
	}
	return single
}

func (p *Parser) sequence(parts []string, from Stage) []Outcome {
	var outs []Outcome
	stage := from
	for i, part := range parts {
		if stage >= StageComplete {
			return append(outs, Outcome{Kind: KindDeviation, Topic: joinParts(parts[i:])})
		}
		o := p.Parse(part, stage, p.Options(stage))
		switch o.Kind {
		case KindSelected:
			outs = append(outs, o)
			stage = stage.Next()
			continue
		case KindNav:
			o.Rest = joinParts(parts[i+1:])
		case KindDeviation:
			if len(outs) == 0 {
				return nil
			}
			o.Topic = joinParts(parts[i:])
		}
		return append(outs, o)
	}
	return outs
}

func allSelected(outs []Outcome) bool {
	for _, o := range outs {
		if o.Kind != KindSelected {
			return false
		}
	}
	return true
}

func joinParts(parts []string) string { return strings.Join(parts, ", ") }

func splitOn(re *regexp.Regexp, s string) []string {
	var out []string
	for _, part := range re.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
