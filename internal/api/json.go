package api

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Problem titles map the error taxonomy the service reports: bad input is
// rejected before any optimization, infeasible instances are surfaced
// rather than clipped, size limits bound runtime, internal failures come
// from the job boundary.
const (
	titleInvalidInput    = "Invalid input"
	titleInfeasible      = "Infeasible instance"
	titleSizeLimit       = "Size limit exceeded"
	titleInternalFailure = "Internal failure"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}
