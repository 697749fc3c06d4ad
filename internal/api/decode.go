package api

import (
	"bytes"
	"codecompanion/internal/models"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	typeMissing    = "value_error.missing"
	typeInvalid    = "value_error"
	typeStr        = "type_error.str"
	typeDict       = "type_error.dict"
	typeJSONDecode = "value_error.jsondecode"
)

// errBodyTooLarge is returned when the body exceeds the configured limit.
var errBodyTooLarge = errors.New("request body too large")

// analyzeBody is the wire shape of an analyze request. Pointers tell an
// absent field apart from an empty string, which the analyzer judges itself.
type analyzeBody struct {
	Language     *string `json:"language" validate:"required"`
	Mode         *string `json:"mode" validate:"required"`
	Code         *string `json:"code" validate:"required"`
	ErrorContext *string `json:"errorContext"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	return body, nil
}

// decodeAnalyzeRequest decodes and validates body.
func decodeAnalyzeRequest(body []byte) (models.AnalyzeRequest, *ValidationError) {
	var (
		in       analyzeBody
		fields   []FieldError
		mistyped string
	)

	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return models.AnalyzeRequest{}, &ValidationError{Fields: []FieldError{{
				Loc:  []string{"body"},
				Msg:  err.Error(),
				Type: typeJSONDecode,
			}}}
		}
		if typeErr.Field == "" {
			return models.AnalyzeRequest{}, &ValidationError{Fields: []FieldError{{
				Loc:  []string{"body"},
				Msg:  "value is not a valid dict",
				Type: typeDict,
			}}}
		}
		// The decoder keeps going after a type error and reports only the first one.
		mistyped = typeErr.Field
		fields = append(fields, FieldError{Loc: []string{"body", mistyped}, Msg: "str type expected", Type: typeStr})
	}

	var verrs validator.ValidationErrors
	errors.As(validate.Struct(in), &verrs)
	for _, fe := range verrs {
		if fe.Field() == mistyped {
			continue
		}
		fields = append(fields, fieldError(fe))
	}

	if len(fields) > 0 {
		return models.AnalyzeRequest{}, &ValidationError{Fields: fields}
	}
	return models.AnalyzeRequest{
		Language:     *in.Language,
		Mode:         models.Mode(*in.Mode),
		Code:         *in.Code,
		ErrorContext: in.ErrorContext,
	}, nil
}

func fieldError(fe validator.FieldError) FieldError {
	loc := []string{"body", fe.Field()}
	if fe.Tag() == "required" {
		return FieldError{Loc: loc, Msg: "field required", Type: typeMissing}
	}
	return FieldError{Loc: loc, Msg: fe.Error(), Type: typeInvalid + "." + fe.Tag()}
}
