// Package act defines the closed set of semantic acts a dialog control can
// produce. Content acts describe what happened to the collected value this
// turn; initiative acts represent a question the control proactively poses.
// The set is sealed: renderers switch over it exhaustively and treat any
// other type as a contract violation.
package act

// Act is the sealed marker for all semantic acts.
type Act interface {
	isAct()
}

// InitiativeAct is implemented by acts that pose a question to the user.
// Kind returns a stable identifier persisted in turn state so a bare
// affirmative or negative in the next turn can be tied back to it.
type InitiativeAct interface {
	Act
	Kind() string
}

// Initiative act kind identifiers.
const (
	KindConfirmValue        = "ConfirmValue"
	KindRequestValue        = "RequestValue"
	KindRequestChangedValue = "RequestChangedValue"
)

// ValueSet reports that the collected values were set and passed validation.
type ValueSet struct {
	ValueIDs []string
	Rendered string
}

// ValueChanged reports that the collected values were replaced. Previous
// holds the ids before the change; callers must have snapshotted them
// before entering a change elicitation.
type ValueChanged struct {
	Previous []string
	ValueIDs []string
	Rendered string
}

// ValueConfirmed reports that the user affirmed a pending confirmation.
type ValueConfirmed struct {
	ValueIDs []string
}

// ValueDisconfirmed reports that the user rejected a pending confirmation.
type ValueDisconfirmed struct {
	ValueIDs []string
}

// InvalidValue reports a validation failure on the current values.
type InvalidValue struct {
	FailedValue    string
	ReasonCode     string
	RenderedReason string
}

// UnusableInputValue reports an input value the control could not use, for
// example a free-form string when the catalog requires a recognized entry.
type UnusableInputValue struct {
	Value  string
	Reason string
}

// ConfirmValue asks the user to confirm the listed values.
type ConfirmValue struct {
	ValueIDs []string
	Rendered string
}

// RequestValue asks the user for a value, offering the current choice window.
type RequestValue struct {
	Choices  []string
	Rendered string
}

// RequestChangedValue asks the user for a replacement value after a failed
// validation, offering the current choice window.
type RequestChangedValue struct {
	Choices  []string
	Rendered string
}

func (ValueSet) isAct()            {}
func (ValueChanged) isAct()        {}
func (ValueConfirmed) isAct()      {}
func (ValueDisconfirmed) isAct()   {}
func (InvalidValue) isAct()        {}
func (UnusableInputValue) isAct()  {}
func (ConfirmValue) isAct()        {}
func (RequestValue) isAct()        {}
func (RequestChangedValue) isAct() {}

func (ConfirmValue) Kind() string        { return KindConfirmValue }
func (RequestValue) Kind() string        { return KindRequestValue }
func (RequestChangedValue) Kind() string { return KindRequestChangedValue }

var (
	_ InitiativeAct = ConfirmValue{}
	_ InitiativeAct = RequestValue{}
	_ InitiativeAct = RequestChangedValue{}
)
