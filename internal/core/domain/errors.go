package domain

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by the core wraps exactly one of them.
var (
	ErrTransport       = errors.New("transport failure")
	ErrHTTPStatus      = errors.New("unexpected http status")
	ErrParse           = errors.New("response is not valid json")
	ErrApplication     = errors.New("application failure")
	ErrNotAuthorized   = errors.New("login required or session mismatch")
	ErrInvalidArgument = errors.New("invalid argument")
)

// RemoteError describes a failed MES call. Op names the call ("login",
// "inventory", "shipments") and Kind is one of the remote failure kinds.
type RemoteError struct {
	Op         string
	Kind       error
	StatusCode int
	Body       string
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	switch e.Kind {
	case ErrTransport:
		return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
	case ErrHTTPStatus:
		return fmt.Sprintf("%s failed (HTTP %d): %s", e.Op, e.StatusCode, e.Body)
	case ErrParse:
		if e.Body == "" && e.Err != nil {
			return fmt.Sprintf("%s response is not valid: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s response is not JSON: %s", e.Op, e.Body)
	case ErrApplication:
		return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// InvalidArgument wraps a validation message in ErrInvalidArgument.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}
