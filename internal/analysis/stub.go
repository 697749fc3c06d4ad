package analysis

import (
	"codecompanion/internal/models"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// ErrInvalidArgument is the kind of every rejection caused by request content.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a request the service understood but refuses to process.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

// Is makes every ArgumentError match ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// ErrEmptyCode is returned in strict mode for a snippet that is blank after trimming.
var ErrEmptyCode error = &ArgumentError{Msg: "Empty code"}

const summaryFormat = "[stub] Analysis for %s code in %s mode."

var (
	stubSteps = []string{
		"Received your code.",
		"This is a fake analysis (LLM not wired yet).",
	}
	stubIssues      = []string{"No real issues – this is just a stub."}
	stubSuggestions = []string{"Hook this endpoint up to a real LLM next."}
)

// Options tunes the stub's behaviour.
type Options struct {
	Strict         bool
	CapitalizeMode bool
}

// Analyzer answers analyze requests with a placeholder result.
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Analyze builds the placeholder response for req. The output depends on req alone;
// log receives the request-scoped entry and may be nil.
func (a *Analyzer) Analyze(log logrus.FieldLogger, req models.AnalyzeRequest) (models.AnalyzeResponse, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if a.opts.Strict && strings.TrimSpace(req.Code) == "" {
		return models.AnalyzeResponse{}, ErrEmptyCode
	}

	mode := string(req.Mode)
	if a.opts.CapitalizeMode {
		mode = capitalize(mode)
	}

	log.WithFields(logrus.Fields{
		"language":          req.Language,
		"mode":              req.Mode,
		"code_length":       len(req.Code),
		"has_error_context": req.ErrorContext != nil,
	}).Debug("Stub analysis produced")

	return models.AnalyzeResponse{
		Summary:      fmt.Sprintf(summaryFormat, req.Language, mode),
		Steps:        clone(stubSteps),
		Issues:       clone(stubIssues),
		Suggestions:  clone(stubSuggestions),
		ImprovedCode: req.Code,
	}, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
