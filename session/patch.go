package session

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/convkit/controls/control"
)

// Operation is one RFC6902 patch operation against a persisted state
// blob. Hosting runtimes that let other tooling edit the session blob
// hand the edits back as a patch.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// DefaultPatchablePaths limits external edits to the page cursor and the
// value list. Elicitation bookkeeping is owned by the control alone.
var DefaultPatchablePaths = []string{
	"/page_index",
	"/values",
	"/values/-",
	"/values/*",
	"/values/*/confirmed",
}

// ApplyPatch applies ops to the state and returns the patched state.
// Every path must be covered by the allowed set (DefaultPatchablePaths
// when empty); "-" and "*" in an allowed path match any array index.
func ApplyPatch(state *control.ListState, ops []Operation, allowed ...string) (*control.ListState, error) {
	if len(ops) == 0 {
		return state, nil
	}
	if len(allowed) == 0 {
		allowed = DefaultPatchablePaths
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, path := range allowed {
		allowedSet[path] = true
	}
	for i, op := range ops {
		if !pathAllowed(op.Path, allowedSet) {
			return nil, fmt.Errorf("operation %d: path %q is not patchable", i, op.Path)
		}
	}

	currentJSON, err := sonic.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal current state: %w", err)
	}
	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("marshal patch operations: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	patchedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}

	patched := control.NewListState()
	if err := sonic.Unmarshal(patchedJSON, patched); err != nil {
		return nil, fmt.Errorf("patch result is not a valid state: %w", err)
	}
	return patched, nil
}

func pathAllowed(path string, allowed map[string]bool) bool {
	if allowed[path] {
		return true
	}
	segments := strings.Split(path, "/")
	return matchWildcard(segments, 1, allowed, false)
}

// matchWildcard substitutes "-" and "*" into each segment in turn and
// checks the resulting pattern against the allowed set.
func matchWildcard(segments []string, index int, allowed map[string]bool, hasWildcard bool) bool {
	if index >= len(segments) {
		if !hasWildcard {
			return false
		}
		return allowed[strings.Join(segments, "/")]
	}

	original := segments[index]

	segments[index] = "-"
	if matchWildcard(segments, index+1, allowed, true) {
		segments[index] = original
		return true
	}

	segments[index] = "*"
	if matchWildcard(segments, index+1, allowed, true) {
		segments[index] = original
		return true
	}

	segments[index] = original
	return matchWildcard(segments, index+1, allowed, hasWildcard)
}
