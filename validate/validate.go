// Package validate runs user-supplied validators over control state in
// configuration order, short-circuiting on the first failure.
package validate

// Failure is a structured validation failure. It is data, not an error:
// invalid user input is an expected outcome handled by the normal act
// emission flow.
type Failure struct {
	FailedValue    string `json:"failed_value"`
	ReasonCode     string `json:"reason_code,omitempty"`
	RenderedReason string `json:"rendered_reason,omitempty"`
}

// Validator inspects state and returns nil when it passes, or a Failure
// describing the first problem it found.
type Validator[S any] func(state S) *Failure

// Run evaluates validators in order and returns the first failure, or nil
// when all pass. An empty validator list is vacuously valid.
func Run[S any](state S, validators []Validator[S]) *Failure {
	for _, v := range validators {
		if v == nil {
			continue
		}
		if failure := v(state); failure != nil {
			return failure
		}
	}
	return nil
}
