// Package workflow is the per-session state machine collecting a TPR selection.
// A Machine is not safe for concurrent use; callers serialize turns per session.
package workflow

import (
	"fmt"
	"strings"

	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/core/selection"
	"wardtpr/internal/core/tpr"
	perr "wardtpr/internal/platform/errors"
)

// Kind is what a Response does for the user
type Kind string

// Response kinds
const (
	KindPrompt    Kind = "prompt"
	KindAdvanced  Kind = "advanced"
	KindComplete  Kind = "complete"
	KindBack      Kind = "back"
	KindStatus    Kind = "status"
	KindHelp      Kind = "help"
	KindDeviation Kind = "deviation" // answer the topic out of band, then remind
	KindAmbiguous Kind = "ambiguous"
	KindIgnored   Kind = "ignored"
)

// Response is the outcome of one turn
type Response struct {
	Kind     Kind            `json:"kind"`
	Text     string          `json:"response_text"`
	Stage    selection.Stage `json:"stage"`
	Terminal bool            `json:"is_terminal"`

	// Topic is the deviating or help seeking utterance for the conversational layer to answer
	Topic string `json:"topic,omitempty"`
	// SkipOffered is set when the reminder offers the stage default
	SkipOffered bool `json:"skip_offered,omitempty"`
	// Candidates lists tied options of an ambiguous answer
	Candidates []selection.Option `json:"candidates,omitempty"`
}

// Config holds the tunables of a Machine
type Config struct {
	// SkipOfferAfter is how many consecutive deviations at one stage pass before
	// the reminder offers skip; the next deviation carries the offer
	SkipOfferAfter int
}

// DefaultConfig returns the field defaults
func DefaultConfig() Config { return Config{SkipOfferAfter: 2} }

// Defaults recorded by skip
var defaults = map[selection.Stage]string{
	selection.StageFacilityLevel: string(tpr.LevelAll),
	selection.StageAgeGroup:      string(tpr.AgeAll),
	selection.StageTestMethod:    string(tpr.MethodBoth),
}

// DefaultFor returns the value skip records at stage
func DefaultFor(stage selection.Stage) string { return defaults[stage] }

// Progress is the selection recorded so far
type Progress struct {
	Stage         selection.Stage `json:"stage"`
	FacilityLevel string          `json:"facility_level,omitempty"`
	AgeGroup      string          `json:"age_group,omitempty"`
	TestMethod    string          `json:"test_method,omitempty"`
}

// Machine walks FacilityLevel -> AgeGroup -> TestMethod -> Complete
type Machine struct {
	parser *selection.Parser
	lx     *lexicon.Lexicon
	cfg    Config

	stage      selection.Stage
	values     [selection.StageComplete]string
	deviations int // consecutive, at the current stage
}

// New returns a machine at the first stage
func New(p *selection.Parser, cfg Config) *Machine {
	if cfg.SkipOfferAfter <= 0 {
		cfg.SkipOfferAfter = DefaultConfig().SkipOfferAfter
	}
	return &Machine{parser: p, lx: p.Lexicon(), cfg: cfg}
}

// Stage returns the current stage
func (m *Machine) Stage() selection.Stage { return m.stage }

// Done reports whether every stage has a value
func (m *Machine) Done() bool { return m.stage == selection.StageComplete }

// Deviations returns the consecutive deviation count at the current stage
func (m *Machine) Deviations() int { return m.deviations }

// Progress returns a copy of the recorded values
func (m *Machine) Progress() Progress {
	return Progress{
		Stage:         m.stage,
		FacilityLevel: m.values[selection.StageFacilityLevel],
		AgeGroup:      m.values[selection.StageAgeGroup],
		TestMethod:    m.values[selection.StageTestMethod],
	}
}

// Selection returns the completed selection. Asking before completion is a caller bug.
func (m *Machine) Selection() (tpr.Selection, error) {
	if !m.Done() {
		return tpr.Selection{}, perr.Contractf("selection requested at stage %s before completion", m.stage)
	}
	level, err := tpr.ParseFacilityLevel(m.values[selection.StageFacilityLevel])
	if err != nil {
		return tpr.Selection{}, err
	}
	age, err := tpr.ParseAgeGroup(m.values[selection.StageAgeGroup])
	if err != nil {
		return tpr.Selection{}, err
	}
	method, err := tpr.ParseTestMethod(m.values[selection.StageTestMethod])
	if err != nil {
		return tpr.Selection{}, err
	}
	return tpr.Selection{FacilityLevel: level, AgeGroup: age, TestMethod: method}, nil
}

// Reset discards all progress
func (m *Machine) Reset() {
	m.stage = selection.StageFacilityLevel
	m.values = [selection.StageComplete]string{}
	m.deviations = 0
}

// Start returns the first prompt without changing state
func (m *Machine) Start() Response {
	return Response{Kind: KindPrompt, Stage: m.stage, Text: m.prompt(m.stage)}
}

// Handle parses one utterance, which may answer several stages, and applies it.
// Selections are acknowledged in order; a trailing question, command or ambiguity is
// applied after them and its reply follows the acknowledgements.
func (m *Machine) Handle(utterance string) Response {
	if m.Done() {
		return m.Step(m.parser.Parse(utterance, m.stage, nil))
	}
	outs := m.parser.ParseAll(utterance, m.stage)
	if len(outs) == 0 {
		return m.Step(selection.Outcome{Kind: selection.KindDeviation, Topic: strings.TrimSpace(utterance)})
	}
	if len(outs) == 1 && outs[0].Rest == "" {
		return m.Step(outs[0])
	}

	var acks []string
	var last Response
	for _, o := range outs {
		if o.Kind == selection.KindSelected {
			last = m.Step(o)
			acks = append(acks, m.ackOf(o))
			continue
		}
		if m.Done() {
			// answered every stage before the question; hand it over with the completion
			last.Topic = o.Topic
			break
		}
		r := m.Step(o)
		if o.Rest != "" {
			if m.Done() {
				r.Topic = o.Rest
			} else {
				note := strings.TrimSpace(strings.TrimSuffix(r.Text, m.prompt(r.Stage)))
				r = m.Handle(o.Rest)
				r.Text = strings.TrimSpace(note + " " + r.Text)
			}
		}
		r.Text = strings.TrimSpace(strings.Join(acks, " ") + " " + r.Text)
		return r
	}

	switch last.Kind {
	case KindComplete:
		last.Text = m.completeText()
	case KindAdvanced:
		last.Text = strings.Join(acks, " ") + " " + m.prompt(m.stage)
	}
	return last
}

// Step applies one parsed outcome
func (m *Machine) Step(o selection.Outcome) Response {
	if m.Done() {
		if o.Kind == selection.KindNav && o.Nav == selection.NavStatus {
			return m.status()
		}
		return Response{Kind: KindIgnored, Stage: m.stage, Terminal: true,
			Text: "The selection is complete: " + m.summary() + "."}
	}

	if o.Kind != selection.KindDeviation {
		m.deviations = 0
	}

	switch o.Kind {
	case selection.KindSelected:
		return m.record(o.Option.Value, m.ackOf(o))
	case selection.KindAmbiguous:
		labels := make([]string, 0, len(o.Candidates))
		for _, c := range o.Candidates {
			labels = append(labels, c.Label)
		}
		return Response{Kind: KindAmbiguous, Stage: m.stage, Candidates: o.Candidates,
			Text: "Did you mean " + orList(labels) + "? " + m.prompt(m.stage)}
	case selection.KindNav:
		r := m.nav(o.Nav)
		if o.Nav == selection.NavHelp {
			r.Topic = o.Topic
		}
		return r
	}

	m.deviations++
	r := Response{Kind: KindDeviation, Stage: m.stage, Topic: o.Topic,
		Text: "Coming back to the " + m.stageName(m.stage) + ": " + m.prompt(m.stage)}
	if m.deviations > m.cfg.SkipOfferAfter {
		r.SkipOffered = true
		r.Text += fmt.Sprintf(" If you are not sure, say \"skip\" to use the default (%s).",
			m.lx.Label(m.stage.String(), DefaultFor(m.stage)))
	}
	return r
}

func (m *Machine) nav(n selection.Nav) Response {
	switch n {
	case selection.NavBack:
		if m.stage == selection.StageFacilityLevel {
			return Response{Kind: KindBack, Stage: m.stage,
				Text: "This is already the first step. " + m.prompt(m.stage)}
		}
		m.stage = m.stage.Prev()
		m.values[m.stage] = ""
		return Response{Kind: KindBack, Stage: m.stage, Text: "Going back. " + m.prompt(m.stage)}
	case selection.NavStatus:
		return m.status()
	case selection.NavSkip:
		def := DefaultFor(m.stage)
		return m.record(def, "Using the default: "+m.lx.Label(m.stage.String(), def)+".")
	}
	text := m.lx.Stages[m.stage.String()].Help
	return Response{Kind: KindHelp, Stage: m.stage, Text: strings.TrimSpace(text + " " + m.prompt(m.stage))}
}

func (m *Machine) record(value, ack string) Response {
	m.values[m.stage] = value
	m.stage = m.stage.Next()
	m.deviations = 0
	if m.Done() {
		return Response{Kind: KindComplete, Stage: m.stage, Terminal: true, Text: m.completeText()}
	}
	return Response{Kind: KindAdvanced, Stage: m.stage, Text: ack + " " + m.prompt(m.stage)}
}

func (m *Machine) status() Response {
	text := "So far: " + m.summary() + "."
	if !m.Done() {
		text += " " + m.prompt(m.stage)
	}
	return Response{Kind: KindStatus, Stage: m.stage, Terminal: m.Done(), Text: text}
}

func (m *Machine) ackOf(o selection.Outcome) string {
	return "Got it: " + o.Option.Label + "."
}

func (m *Machine) completeText() string {
	return "All set: " + m.summary() + ". Calculating the TPR now."
}

// summary lists recorded values, or "nothing selected yet"
func (m *Machine) summary() string {
	var parts []string
	for st := selection.StageFacilityLevel; st < selection.StageComplete; st++ {
		if v := m.values[st]; v != "" {
			parts = append(parts, m.stageName(st)+" "+m.lx.Label(st.String(), v))
		}
	}
	if len(parts) == 0 {
		return "nothing selected yet"
	}
	return strings.Join(parts, ", ")
}

// prompt is the stage question with its numbered menu
func (m *Machine) prompt(st selection.Stage) string {
	if st >= selection.StageComplete {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.lx.Stages[st.String()].Prompt)
	for i, opt := range m.parser.Options(st) {
		fmt.Fprintf(&b, " %d) %s", i+1, opt.Label)
	}
	return b.String()
}

func (m *Machine) stageName(st selection.Stage) string {
	return strings.ReplaceAll(st.String(), "_", " ")
}

func orList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
