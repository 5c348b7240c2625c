package firestore

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound reports an absent document
	ErrNotFound = errors.New("document not found")
	// ErrUnauthorized reports a missing, expired or rejected ID token
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransport reports a network or connection failure
	ErrTransport = errors.New("transport failure")
	// ErrSchemaMismatch reports a wire value of an unexpected shape
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrMissingName reports a create response without a document name
	ErrMissingName = errors.New("response carries no document name")
)

// StatusError is a non-success response from the document store
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("firestore %s: status %d: %s", e.Op, e.Status, truncate(e.Body, 300))
}

// Is maps the HTTP status onto the error taxonomy
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// SchemaError is a decode that found the wrong wrapper for a field
type SchemaError struct {
	Field string
	Want  Kind
	Got   Kind
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema mismatch: want %s, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("schema mismatch at %q: want %s, got %s", e.Field, e.Want, e.Got)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// atField prefixes a field path onto schema errors
func atField(field string, err error) error {
	if err == nil {
		return nil
	}
	var se *SchemaError
	if errors.As(err, &se) {
		cp := *se
		if cp.Field == "" {
			cp.Field = field
		} else {
			cp.Field = field + "." + cp.Field
		}
		return &cp
	}
	return fmt.Errorf("%s: %w", field, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
