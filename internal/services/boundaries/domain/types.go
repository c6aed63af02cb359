// Package domain holds boundary reference types and ports
package domain

import "encoding/json"

// Feature is one canonical ward polygon, read only once loaded
type Feature struct {
	CanonicalWardName string          `json:"canonical_ward_name"`
	LGA               string          `json:"lga"`
	State             string          `json:"state"`
	WardCode          string          `json:"ward_code,omitempty"`
	Geometry          json.RawMessage `json:"geometry,omitempty"`
}

// StateInput selects one state's boundaries
type StateInput struct {
	State string `json:"state" validate:"notblank,max=100" example:"Adamawa"`
}

// WardName is the light listing row served over HTTP
type WardName struct {
	Name     string `json:"name"`
	LGA      string `json:"lga"`
	WardCode string `json:"ward_code,omitempty"`
}
