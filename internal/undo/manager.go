package undo

import (
	"context"
	"sync"

	"github.com/regenrek/peakydash/internal/observable"
)

// DefaultLimit is the number of reversal actions kept before the oldest is evicted.
const DefaultLimit = 50

// Action reverses one logical operation. It must restore a snapshot captured
// before the operation was applied.
type Action func(ctx context.Context) error

// Manager is a bounded LIFO stack of reversal actions.
type Manager struct {
	mu      sync.Mutex
	stack   []Action
	limit   int
	canUndo *observable.Cell[bool]
}

// New creates a manager. A non-positive limit selects DefaultLimit.
func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit, canUndo: observable.NewCell(false)}
}

// Push appends action, evicting the oldest entry when the stack is full.
func (m *Manager) Push(action Action) {
	if m == nil || action == nil {
		return
	}
	m.mu.Lock()
	for len(m.stack) >= m.limit {
		m.stack[0] = nil
		m.stack = m.stack[1:]
	}
	m.stack = append(m.stack, action)
	m.mu.Unlock()
	m.canUndo.Set(true)
}

// Run pops the most recent action and invokes it. The entry is removed before
// the action runs, so a failing action is dropped rather than retried.
func (m *Manager) Run(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	if len(m.stack) == 0 {
		m.mu.Unlock()
		return nil
	}
	last := len(m.stack) - 1
	action := m.stack[last]
	m.stack[last] = nil
	m.stack = m.stack[:last]
	m.mu.Unlock()

	defer m.refresh()
	return action(ctx)
}

// CanUndo reports whether the stack holds at least one action.
func (m *Manager) CanUndo() bool {
	if m == nil {
		return false
	}
	return m.canUndo.Get()
}

// Subscribe observes CanUndo changes. The current value is replayed immediately.
func (m *Manager) Subscribe(fn func(bool)) func() {
	if m == nil {
		return func() {}
	}
	return m.canUndo.Subscribe(fn)
}

// Len returns the number of stored actions.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

// Limit returns the capacity.
func (m *Manager) Limit() int {
	if m == nil {
		return 0
	}
	return m.limit
}

// Clear drops every stored action.
func (m *Manager) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.stack = nil
	m.mu.Unlock()
	m.canUndo.Set(false)
}

func (m *Manager) refresh() {
	m.mu.Lock()
	nonEmpty := len(m.stack) > 0
	m.mu.Unlock()
	m.canUndo.Set(nonEmpty)
}
