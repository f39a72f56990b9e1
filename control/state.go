package control

import "slices"

// ElicitationMode identifies which question is currently outstanding.
type ElicitationMode string

const (
	ModeNone   ElicitationMode = ""
	ModeSet    ElicitationMode = "set"
	ModeChange ElicitationMode = "change"
)

// ValueEntry is one collected item. Valid is nil until the validation
// pipeline has judged the entry. MatchedCatalog records whether recognition
// resolved the raw utterance text to a known catalog entry rather than
// passing through a free-form string.
type ValueEntry struct {
	ID             string `json:"id"`
	Confirmed      bool   `json:"confirmed"`
	Valid          *bool  `json:"valid,omitempty"`
	MatchedCatalog bool   `json:"matched_catalog"`
}

// InitiativeRecord remembers the most recent initiative act so a bare
// affirmative or negative in the next turn can be tied back to it.
type InitiativeRecord struct {
	ActKind  string   `json:"act_kind"`
	ValueIDs []string `json:"value_ids,omitempty"`
}

// ListState is the per-instance state persisted across turns. It is owned
// exclusively by one control; hosts carry it between turns through the
// session package. A nil Values slice means the user was never asked,
// which is distinct from an empty list.
type ListState struct {
	Values          []ValueEntry      `json:"values,omitempty"`
	PreviousValues  []string          `json:"previous_values,omitempty"`
	ElicitationMode ElicitationMode   `json:"elicitation_mode,omitempty"`
	PageIndex       int               `json:"page_index"`
	LastInitiative  *InitiativeRecord `json:"last_initiative,omitempty"`

	// ActiveInitiativeAct mirrors the kind of the most recently emitted
	// initiative act, for diagnostics and state diagrams.
	ActiveInitiativeAct string `json:"active_initiative_act,omitempty"`
}

func NewListState() *ListState {
	return &ListState{}
}

// Clear resets the collected values and any in-flight elicitation.
// PageIndex survives so repeated elicitation keeps its place in the
// choice list.
func (s *ListState) Clear() {
	s.Values = nil
	s.PreviousValues = nil
	s.ElicitationMode = ModeNone
	s.LastInitiative = nil
	s.ActiveInitiativeAct = ""
}

// ValueIDs returns the ids of all collected entries in collection order.
func (s *ListState) ValueIDs() []string {
	if len(s.Values) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.Values))
	for _, e := range s.Values {
		ids = append(ids, e.ID)
	}
	return ids
}

func (s *ListState) unconfirmedIDs() []string {
	var ids []string
	for _, e := range s.Values {
		if !e.Confirmed {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func (s *ListState) confirmAll(ids []string) {
	for i := range s.Values {
		if slices.Contains(ids, s.Values[i].ID) {
			s.Values[i].Confirmed = true
		}
	}
}

// dropUnconfirmed removes unconfirmed entries whose id is in ids.
func (s *ListState) dropUnconfirmed(ids []string) {
	kept := s.Values[:0]
	for _, e := range s.Values {
		if !e.Confirmed && slices.Contains(ids, e.ID) {
			continue
		}
		kept = append(kept, e)
	}
	s.Values = kept
}

// markValidity records the outcome of a validation run on each entry.
// On failure only the failing entry is marked; the others keep their
// previous judgement.
func (s *ListState) markValidity(failedValue string, valid bool) {
	for i := range s.Values {
		if valid {
			t := true
			s.Values[i].Valid = &t
			continue
		}
		if s.Values[i].ID == failedValue {
			f := false
			s.Values[i].Valid = &f
		}
	}
}
