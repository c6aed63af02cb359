package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"wardtpr/internal/core/version"
)

//go:embed openapi.json
var openapiJSON []byte

// source is swapped by tests
var source = func() []byte { return openapiJSON }

type node = map[string]any

// every operation can fail these ways; the envelope is ErrorResponse
var defaultErrors = map[string]string{
	"400": "Bad Request",
	"500": "Internal Server Error",
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body, err := render(source(), version.Info().Version)
		if err != nil {
			http.Error(w, "openapi document unreadable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	}
}

// render stamps the version and server url into the document and gives
// every operation the ErrorResponse schema for its error statuses
func render(raw []byte, ver string) ([]byte, error) {
	var doc node
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc["servers"] = []any{node{"url": "/api/v1"}}
	child(doc, "info")["version"] = ver
	child(child(doc, "components"), "schemas")["ErrorResponse"] = errorSchema()

	for _, item := range child(doc, "paths") {
		ops, _ := item.(node)
		for _, op := range ops {
			o, ok := op.(node)
			if !ok {
				continue
			}
			resps := child(o, "responses")
			for code, resp := range resps {
				if isError(code) {
					if r, ok := resp.(node); ok {
						r["content"] = errorContent()
					}
				}
			}
			for code, text := range defaultErrors {
				if _, ok := resps[code]; !ok {
					resps[code] = node{"description": text, "content": errorContent()}
				}
			}
		}
	}
	return json.Marshal(doc)
}

func isError(code string) bool { return len(code) == 3 && (code[0] == '4' || code[0] == '5') }

// child returns m[key] as an object, creating it when absent
func child(m node, key string) node {
	if v, ok := m[key].(node); ok {
		return v
	}
	v := node{}
	m[key] = v
	return v
}

func errorContent() node {
	return node{"application/json": node{"schema": node{"$ref": "#/components/schemas/ErrorResponse"}}}
}

func errorSchema() node {
	props := node{}
	required := []string{"status", "status_code"}
	for name, typ := range map[string]string{
		"status_code": "integer",
		"status":      "string",
		"code":        "integer",
		"error":       "string",
		"field":       "string",
		"request_id":  "string",
	} {
		props[name] = node{"type": typ}
	}
	return node{"type": "object", "properties": props, "required": required}
}
