package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidMediaType = errors.New("invalid media type")
	ErrEmptyBatch       = errors.New("empty batch")
	ErrNoMatchFound     = errors.New("no match found")
	ErrNetworkFailure   = errors.New("network failure")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrConfiguration    = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrNetworkFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether err is surfaced to the user as a transient notice
// rather than a failure. Recoverable errors never mutate the history.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrInvalidMediaType),
		errors.Is(err, ErrEmptyBatch),
		errors.Is(err, ErrNoMatchFound):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// MarkerForStatus maps a backend HTTP status to an error marker. Statuses
// below 400 map to nil.
func MarkerForStatus(status int) error {
	switch {
	case status < 400:
		return nil
	case status == 401 || status == 403:
		return ErrUnauthenticated
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 422:
		return ErrValidation
	default:
		return ErrNetworkFailure
	}
}
