package control

import "errors"

// Contract violations. These indicate a caller/engine desynchronization,
// not bad user input; they surface as panics and must not be masked.
var (
	// ErrHandlerStateMismatch: Handle was invoked without a prior
	// successful CanHandle on the same turn.
	ErrHandlerStateMismatch = errors.New("handler state mismatch")

	// ErrMissingPreviousValues: a change elicitation completed without a
	// stored previous-values snapshot.
	ErrMissingPreviousValues = errors.New("missing previous values")

	// ErrInitiativeNotAllowed: TakeInitiative was invoked without a prior
	// successful CanTakeInitiative.
	ErrInitiativeNotAllowed = errors.New("initiative not allowed")
)
