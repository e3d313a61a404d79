package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotAuthenticated is returned by protected operations when no token is
// stored. The network call is never issued in that case; a guaranteed 401
// round trip is pointless.
var ErrNotAuthenticated = errors.New("not logged in, run `stockctl auth login`")

// genericValidationMessage is the fallback when an error body cannot be
// parsed into the `{message: string | []string}` contract.
const genericValidationMessage = "the server rejected the request"

// ConnectivityError reports that no HTTP response was obtained at all:
// offline, DNS failure, refused connection, or timeout. It is never conflated
// with an HTTP-level error response and is always safe to retry manually.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "cannot reach server: " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ForbiddenError reports a 403: the session is valid but lacks the scope for
// the operation. The guard is deliberately not invalidated.
type ForbiddenError struct {
	Operation string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: not permitted to %s", e.Operation)
}

// NotFoundError reports a 404 on a single-resource read.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ValidationError carries the server's rejection messages for a write, in
// the order the server sent them. The user corrects input and resubmits;
// nothing is retried automatically.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// UnexpectedStatusError covers any response shape outside the taxonomy. It
// degrades to a generic failure instead of crashing the caller.
type UnexpectedStatusError struct {
	StatusCode int
	Message    string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected response (status %d): %s", e.StatusCode, e.Message)
}

// normalizeErrorMessages parses an error body against the only structured
// contract the backend offers: `{message: string | []string}`. Both shapes
// normalize to an ordered list; anything unparseable becomes one generic
// message.
func normalizeErrorMessages(body []byte) []string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return []string{genericValidationMessage}
	}

	var single string
	if err := json.Unmarshal(envelope.Message, &single); err == nil {
		if single == "" {
			return []string{genericValidationMessage}
		}
		return []string{single}
	}

	var many []string
	if err := json.Unmarshal(envelope.Message, &many); err == nil && len(many) > 0 {
		return many
	}

	return []string{genericValidationMessage}
}
