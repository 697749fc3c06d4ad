package models

// Mode is the kind of analysis a caller asks for. Any string is accepted.
type Mode string

const (
	ModeExplain  Mode = "explain"
	ModeDebug    Mode = "debug"
	ModeRefactor Mode = "refactor"
)

// AnalyzeRequest defines the structure for the API request.
type AnalyzeRequest struct {
	Language     string  `json:"language"`
	Mode         Mode    `json:"mode"`
	Code         string  `json:"code"`
	ErrorContext *string `json:"errorContext"`
}

// AnalyzeResponse defines the structure for the API response.
type AnalyzeResponse struct {
	Summary      string   `json:"summary"`
	Steps        []string `json:"steps"`
	Issues       []string `json:"issues"`
	Suggestions  []string `json:"suggestions"`
	ImprovedCode string   `json:"improvedCode"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}
