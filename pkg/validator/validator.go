package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/inventory/pkg/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

// FailedFields returns the sorted JSON names of every field that failed validation.
func FailedFields(err error) []string {
	m := FormatValidationErrors(err)
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "email":
		return "Must be a valid email address"
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// emptyBody is what an absent request body decodes as.
var emptyBody = []byte("{}")

// DecodeRequest decodes the JSON request body into T and writes a 400
// {"message":"Invalid JSON"} response if the body is malformed or carries
// trailing data. An empty body decodes as {}. A body over the
// RequestBodyLimit cap yields 413. Struct types are additionally validated;
// failures yield 422 with the per-field messages.
// Returns (parsed, true) on success or (zero, false) on failure.
func DecodeRequest[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		if err := json.Unmarshal(emptyBody, &req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
			return req, false
		}
	case err != nil:
		writeDecodeError(w, err)
		return req, false
	default:
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			writeDecodeError(w, err)
			return req, false
		}
	}

	if reflect.Indirect(reflect.ValueOf(&req)).Kind() != reflect.Struct {
		return req, true
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"fields":  FormatValidationErrors(err),
		})
		return req, false
	}
	return req, true
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
}
