package config

import (
	"strings"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the entire configuration was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Path is the dot-separated path to the changed setting.
	// Empty for reload events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value (may be nil for reloads).
	NewValue any
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// ObserverHandle represents an active observer registration.
type ObserverHandle struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this observer.
func (h ObserverHandle) Unsubscribe() {
	if h.notifier != nil {
		h.notifier.unsubscribe(h.id)
	}
}

type registration struct {
	id       uint64
	path     string
	observer Observer
}

// Notifier manages configuration change observers. An observer
// registered on a path receives changes to that path or any path
// under it; the empty path receives everything. Reload changes are
// delivered to all observers.
type Notifier struct {
	mu     sync.RWMutex
	regs   []registration
	nextID uint64
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Observe registers an observer on a path prefix.
func (n *Notifier) Observe(path string, observer Observer) ObserverHandle {
	if observer == nil {
		return ObserverHandle{}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.regs = append(n.regs, registration{id: n.nextID, path: path, observer: observer})
	return ObserverHandle{id: n.nextID, notifier: n}
}

// Notify delivers a change to all matching observers, synchronously.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	regs := make([]registration, len(n.regs))
	copy(regs, n.regs)
	n.mu.RUnlock()

	for _, r := range regs {
		if matches(r.path, change) {
			r.observer(change)
		}
	}
}

func matches(path string, change Change) bool {
	if path == "" || change.Type == ChangeReload {
		return true
	}
	return change.Path == path || strings.HasPrefix(change.Path, path+".")
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, r := range n.regs {
		if r.id == id {
			n.regs = append(n.regs[:i], n.regs[i+1:]...)
			return
		}
	}
}
