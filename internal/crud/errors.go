package crud

import (
	"errors"
	"sort"
	"strings"

	"gymdesk/internal/api"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
)

// NonFieldErrors is the key for errors that belong to the submission as a whole.
const NonFieldErrors = "__all__"

// ValidationErrors maps a submitted field to its messages. Writers return it
// from inside a transaction to abort the write with a 400.
type ValidationErrors map[string][]api.FieldError

func (v ValidationErrors) Add(field, code, message string) {
	v[field] = append(v[field], api.FieldError{Message: message, Code: code})
}

func (v ValidationErrors) Merge(other ValidationErrors) {
	for field, errs := range other {
		v[field] = append(v[field], errs...)
	}
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func FieldError(field, code, message string) ValidationErrors {
	v := ValidationErrors{}
	v.Add(field, code, message)
	return v
}

// Conflict wraps ErrConflict with a message that is safe to show.
type Conflict struct {
	Message string
}

func (c Conflict) Error() string { return c.Message }
func (c Conflict) Unwrap() error { return ErrConflict }
