package service

import (
	"errors"
	"sort"
	"strings"
)

// Errors returned by the services.  Handlers map them onto HTTP statuses;
// anything not listed here is an internal failure.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrDuplicateSlug      = errors.New("slug is already in use")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrOutOfStock         = errors.New("package is out of stock")
)

// ValidationError names the request fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid or missing fields: " + strings.Join(e.Fields, ", ")
}

// fieldErrors collects field names while validating an input.
type fieldErrors []string

func (f *fieldErrors) check(ok bool, field string) {
	if !ok {
		*f = append(*f, field)
	}
}

// err returns a *ValidationError when any field was recorded, nil otherwise.
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	fields := append([]string(nil), f...)
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
