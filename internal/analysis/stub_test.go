package analysis

import (
	"bytes"
	"codecompanion/internal/models"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

var discard = func() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}()

func newTestAnalyzer(opts Options) *Analyzer {
	return NewAnalyzer(opts)
}

func strPtr(s string) *string { return &s }

func TestAnalyzeEndToEnd(t *testing.T) {
	a := newTestAnalyzer(Options{Strict: true})

	got, err := a.Analyze(discard, models.AnalyzeRequest{Language: "python", Mode: models.ModeExplain, Code: "print(1)"})
	if err != nil {
		t.Fatalf("Analyze() returned error: %v", err)
	}

	expected := models.AnalyzeResponse{
		Summary:      "[stub] Analysis for python code in explain mode.",
		Steps:        []string{"Received your code.", "This is a fake analysis (LLM not wired yet)."},
		Issues:       []string{"No real issues – this is just a stub."},
		Suggestions:  []string{"Hook this endpoint up to a real LLM next."},
		ImprovedCode: "print(1)",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected: %+v, got: %+v", expected, got)
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	testCases := []models.AnalyzeRequest{
		{Language: "go", Mode: models.ModeDebug, Code: "package main\n\nfunc main() {}\n"},
		{Language: "javascript", Mode: models.ModeRefactor, Code: "  let x = 1;\t\n", ErrorContext: strPtr("TypeError")},
		{Language: "", Mode: "whatever", Code: "x"},
		{Language: "rust", Mode: models.ModeExplain, Code: "fn main() { println!(\"héllo – ✓\"); }"},
	}

	a := newTestAnalyzer(Options{Strict: true})
	for _, req := range testCases {
		t.Run(req.Language+"/"+string(req.Mode), func(t *testing.T) {
			first, err := a.Analyze(discard, req)
			if err != nil {
				t.Fatalf("Analyze() returned error: %v", err)
			}
			if first.ImprovedCode != req.Code {
				t.Errorf("improvedCode %q does not echo code %q", first.ImprovedCode, req.Code)
			}
			if !strings.Contains(first.Summary, "[stub]") {
				t.Errorf("summary %q lacks the [stub] marker", first.Summary)
			}
			if len(first.Issues) == 0 || len(first.Suggestions) == 0 {
				t.Errorf("issues and suggestions must be non-empty, got %v and %v", first.Issues, first.Suggestions)
			}

			second, err := a.Analyze(discard, req)
			if err != nil {
				t.Fatalf("second Analyze() returned error: %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("Analyze() is not idempotent: %+v vs %+v", first, second)
			}
		})
	}
}

func TestAnalyzeBlankCode(t *testing.T) {
	testCases := []struct {
		name    string
		strict  bool
		code    string
		wantErr bool
	}{
		{name: "Strict empty", strict: true, code: "", wantErr: true},
		{name: "Strict whitespace", strict: true, code: "   ", wantErr: true},
		{name: "Strict newlines and tabs", strict: true, code: "\n\t \r\n", wantErr: true},
		{name: "Lenient empty", strict: false, code: ""},
		{name: "Lenient whitespace", strict: false, code: "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAnalyzer(Options{Strict: tc.strict})
			resp, err := a.Analyze(discard, models.AnalyzeRequest{Language: "python", Mode: models.ModeDebug, Code: tc.code})

			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				if !errors.Is(err, ErrEmptyCode) {
					t.Errorf("expected ErrEmptyCode, got %v", err)
				}
				var argErr *ArgumentError
				if !errors.As(err, &argErr) || argErr.Msg != "Empty code" {
					t.Errorf("expected message 'Empty code', got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Analyze() returned error: %v", err)
			}
			if resp.ImprovedCode != tc.code {
				t.Errorf("expected echo %q, got %q", tc.code, resp.ImprovedCode)
			}
		})
	}
}

func TestAnalyzeCapitalizeMode(t *testing.T) {
	testCases := []struct {
		mode     models.Mode
		expected string
	}{
		{mode: "explain", expected: "[stub] Analysis for go code in Explain mode."},
		{mode: "DEBUG", expected: "[stub] Analysis for go code in Debug mode."},
		{mode: "", expected: "[stub] Analysis for go code in  mode."},
		{mode: "élan", expected: "[stub] Analysis for go code in Élan mode."},
	}

	a := newTestAnalyzer(Options{Strict: true, CapitalizeMode: true})
	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			resp, err := a.Analyze(discard, models.AnalyzeRequest{Language: "go", Mode: tc.mode, Code: "x"})
			if err != nil {
				t.Fatalf("Analyze() returned error: %v", err)
			}
			if resp.Summary != tc.expected {
				t.Errorf("expected: %q, got: %q", tc.expected, resp.Summary)
			}
		})
	}
}

func TestAnalyzeResponsesDoNotShareSlices(t *testing.T) {
	a := newTestAnalyzer(Options{})
	req := models.AnalyzeRequest{Language: "go", Mode: models.ModeExplain, Code: "x"}

	first, _ := a.Analyze(discard, req)
	first.Steps[0] = "mutated"
	first.Issues[0] = "mutated"
	first.Suggestions[0] = "mutated"

	second, _ := a.Analyze(discard, req)
	if second.Steps[0] != "Received your code." || second.Issues[0] == "mutated" || second.Suggestions[0] == "mutated" {
		t.Errorf("mutating one response leaked into the next: %+v", second)
	}
}

func TestAnalyzeLogsThroughGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	a := newTestAnalyzer(Options{Strict: true})
	if _, err := a.Analyze(logger.WithField("request_id", "rid-7"), models.AnalyzeRequest{Language: "go", Mode: models.ModeDebug, Code: "x"}); err != nil {
		t.Fatalf("Analyze() returned error: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q", buf.String())
	}
	if entry["request_id"] != "rid-7" || entry["language"] != "go" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestAnalyzeNilLogger(t *testing.T) {
	a := newTestAnalyzer(Options{Strict: true})
	if _, err := a.Analyze(nil, models.AnalyzeRequest{Language: "go", Mode: models.ModeDebug, Code: "x"}); err != nil {
		t.Fatalf("Analyze() returned error: %v", err)
	}
}
