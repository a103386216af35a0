package steam

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a gateway failure without inspecting message text.
// Callers branch on the kind, never on the error string.
type ErrorKind string

const (
	KindNotFound       ErrorKind = "not_found"
	KindPrivateProfile ErrorKind = "private_profile"
	KindRateLimited    ErrorKind = "rate_limited"
	KindUnavailable    ErrorKind = "unavailable"
)

// APIError carries the classified failure from a Steam endpoint.
type APIError struct {
	Kind   ErrorKind
	Status int
	Op     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("steam %s: %s (status %d)", e.Op, e.Kind, e.Status)
}

// KindOf extracts the error kind, defaulting to unavailable for transport
// errors that never reached classification.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnavailable
}

func classifyStatus(op string, status int) *APIError {
	kind := KindUnavailable
	switch {
	case status == 400 || status == 404:
		kind = KindNotFound
	case status == 401 || status == 403:
		kind = KindPrivateProfile
	case status == 429:
		kind = KindRateLimited
	}
	return &APIError{Kind: kind, Status: status, Op: op}
}
