package api

import "errors"

// Error kinds. Callers match them with errors.Is; the backend's detail text
// travels alongside in *Error.
var (
	ErrAuth       = errors.New("authentication failed")
	ErrValidation = errors.New("request rejected")
	ErrState      = errors.New("illegal entry transition")
	ErrNetwork    = errors.New("backend unreachable")
)

// Error is one failed backend call. Detail carries the backend's error
// message verbatim so it can be shown to the user unchanged.
type Error struct {
	Kind       error
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}
