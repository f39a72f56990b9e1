package session

import (
	"context"
	"sync"

	"github.com/convkit/controls/control"
)

// StateReadWriter provides read/write access to control state using the
// context for routing.
type StateReadWriter interface {
	InitState(ctx context.Context) *control.ListState
	Load(ctx context.Context) (*control.ListState, error)
	Save(ctx context.Context, state *control.ListState) error
	Clear(ctx context.Context) error
}

type sessionKeyContext struct{}

const defaultSessionKey = "default"

// WithSessionKey sets a routing key for state storage in the context.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// SessionKeyFromContext gets the routing key from the context.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(sessionKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func sessionKeyOrDefault(ctx context.Context) string {
	key, ok := SessionKeyFromContext(ctx)
	if ok && key != "" {
		return key
	}
	return defaultSessionKey
}

// MemoryStateStore is an in-memory StateReadWriter for testing and local
// usage.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]*control.ListState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[string]*control.ListState),
	}
}

func (m *MemoryStateStore) InitState(ctx context.Context) *control.ListState {
	return control.NewListState()
}

func (m *MemoryStateStore) Load(ctx context.Context) (*control.ListState, error) {
	m.mu.RLock()
	state, ok := m.states[sessionKeyOrDefault(ctx)]
	m.mu.RUnlock()
	if ok {
		return state, nil
	}
	return m.InitState(ctx), nil
}

func (m *MemoryStateStore) Save(ctx context.Context, state *control.ListState) error {
	if state == nil {
		state = control.NewListState()
	}
	m.mu.Lock()
	m.states[sessionKeyOrDefault(ctx)] = state
	m.mu.Unlock()
	return nil
}

func (m *MemoryStateStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	delete(m.states, sessionKeyOrDefault(ctx))
	m.mu.Unlock()
	return nil
}

var _ StateReadWriter = (*MemoryStateStore)(nil)
