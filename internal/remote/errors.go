package remote

import (
	"errors"
	"fmt"

	"github.com/evandahm/reviewdesk/internal/identity"
)

var (
	// ErrSubmissionNotFound indicates the decision endpoint reported no
	// submission for the given id.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrInvalidReviewPayload indicates the decision endpoint rejected
	// the review payload.
	ErrInvalidReviewPayload = errors.New("invalid review payload")
)

// StatusError is a remote response with a non-success status code that
// maps to no more specific error.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned status %d", e.Code)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Code, e.Message)
}

// classifyDecision maps a decision-endpoint status code to the review
// error taxonomy.
func classifyDecision(code int, body []byte) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == 403:
		return identity.ErrPermissionDenied
	case code == 404:
		return ErrSubmissionNotFound
	case code == 400:
		return ErrInvalidReviewPayload
	default:
		return &StatusError{Code: code, Message: string(body)}
	}
}
