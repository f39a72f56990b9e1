package session

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/convkit/controls/control"
)

// Encode serializes control state into the opaque blob a hosting runtime
// persists between turns.
func Encode(state *control.ListState) ([]byte, error) {
	if state == nil {
		state = control.NewListState()
	}
	blob, err := sonic.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode control state: %w", err)
	}
	return blob, nil
}

// Decode deserializes a persisted blob. An empty blob yields a fresh
// state.
func Decode(blob []byte) (*control.ListState, error) {
	if len(blob) == 0 {
		return control.NewListState(), nil
	}
	state := control.NewListState()
	if err := sonic.Unmarshal(blob, state); err != nil {
		return nil, fmt.Errorf("decode control state: %w", err)
	}
	return state, nil
}
