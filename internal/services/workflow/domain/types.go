// Package domain holds the TPR workflow session DTOs and ports
package domain

import (
	"encoding/json"

	"wardtpr/internal/core/selection"
	"wardtpr/internal/core/tpr"
)

// CreateInput opens a session over uploaded facility rows for one state
type CreateInput struct {
	State   string            `json:"state" validate:"notblank,max=100" example:"Adamawa"`
	Records []json.RawMessage `json:"records" validate:"required,min=1,max=200000"`
}

// TurnInput is one user message
type TurnInput struct {
	Utterance string `json:"utterance" validate:"max=2000" example:"primary, under 5, rdt"`
}

// TurnOutput is the workflow reply to one message
type TurnOutput struct {
	SessionID    string             `json:"session_id"`
	ResponseText string             `json:"response_text"`
	Stage        selection.Stage    `json:"stage" swaggertype:"string"`
	IsTerminal   bool               `json:"is_terminal"`
	Kind         string             `json:"kind"`
	Topic        string             `json:"topic,omitempty"`
	SkipOffered  bool               `json:"skip_offered,omitempty"`
	Candidates   []selection.Option `json:"candidates,omitempty"`
}

// SessionOutput is returned when a session opens
type SessionOutput struct {
	TurnOutput
	State  string            `json:"state"`
	Intake tpr.IntakeSummary `json:"intake"`
}

// MapRow is one ward of the map table. Canonical name and technique are null
// for wards the resolver could not place; those rows stay in the table.
type MapRow struct {
	WardNameRaw         string  `json:"ward_name_raw"`
	CanonicalWardName   *string `json:"canonical_ward_name"`
	LGA                 string  `json:"lga"`
	TestedTotal         uint    `json:"tested_total"`
	PositiveTotal       uint    `json:"positive_total"`
	TPRPercent          float64 `json:"tpr_percent"`
	ResolutionTechnique *string `json:"resolution_technique"`
}

// ResultOutput is the computed TPR joined to boundaries
type ResultOutput struct {
	SessionID  string            `json:"session_id"`
	State      string            `json:"state"`
	Selection  tpr.Selection     `json:"selection"`
	Rows       []MapRow          `json:"rows"`
	NoData     []string          `json:"no_data"`
	Unresolved []string          `json:"unresolved"`
	Intake     tpr.IntakeSummary `json:"intake"`
	Empty      bool              `json:"empty"`
	Message    string            `json:"message,omitempty"`
}
