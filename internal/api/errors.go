package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one entry of a 422 body, located by its path inside the request.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError reports a body that does not match the expected request shape.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return "malformed request: " + strings.Join(parts, "; ")
}

type detailBody struct {
	Detail interface{} `json:"detail"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		LoggerFrom(r.Context()).Warnf("Failed to encode response body: %v", err)
	}
}

// writeDetail writes {"detail": msg}.
func writeDetail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, detailBody{Detail: msg})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err *ValidationError) {
	writeJSON(w, r, http.StatusUnprocessableEntity, detailBody{Detail: err.Fields})
}
