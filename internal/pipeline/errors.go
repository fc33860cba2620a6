package pipeline

import (
	"errors"
	"fmt"

	"storyreel/internal/scenario"
)

// FailureKind classifies where in the pipeline a run failed.
type FailureKind string

const (
	// FailureInputRejected covers briefs rejected before any provider call.
	FailureInputRejected FailureKind = "input_rejected"
	// FailureProviderUnavailable covers transport, auth, quota, and server
	// failures from the provider.
	FailureProviderUnavailable FailureKind = "provider_unavailable"
	// FailureEmptyResponse covers provider replies with no usable text.
	FailureEmptyResponse FailureKind = "empty_provider_response"
	// FailureMalformedPayload covers non-empty replies that do not decode
	// into the document shape.
	FailureMalformedPayload FailureKind = "malformed_payload"
	// FailureInvariantViolation covers documents that decoded but broke a
	// domain rule.
	FailureInvariantViolation FailureKind = "invariant_violation"
)

// Error is the single failure type the pipeline returns.
type Error struct {
	Kind  FailureKind
	RunID string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation %s failed (%s): %v", e.RunID, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Invariant returns the violated invariant for invariant-violation failures
// and false otherwise.
func (e *Error) Invariant() (scenario.Invariant, bool) {
	var verr *scenario.ValidationError
	if errors.As(e.Err, &verr) {
		return verr.Invariant, true
	}
	return "", false
}

// KindOf extracts the failure kind from any error returned by Generate.
func KindOf(err error) (FailureKind, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind, true
	}
	return "", false
}
