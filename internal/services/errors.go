package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated means no session, an unknown token, or an
	// expired one. Callers answer with an authorization-failure signal.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden means the session resolved to an inactive user.
	ErrForbidden = errors.New("user inactive")
)

// ValidationError carries per-field messages for a rejected write. The UI
// shows them inline; the API returns them as a field->message map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	sort.Strings(msgs)
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}
