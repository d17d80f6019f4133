package store

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// ChangeListener receives change events from a Notifier. Either callback
// may be nil when the listener does not care about that event shape.
type ChangeListener struct {
	// OnCollectionChanged fires when a project's set of groups or tags
	// changed, including after an external edit invalidated the cache.
	OnCollectionChanged func(project string)
	// OnAssignmentsChanged fires when only a single object's group
	// membership or tag assignments moved. Listeners can use it to avoid
	// a full refresh.
	OnAssignmentsChanged func(project, objectFqn string)
}

// Notifier fans change events out to registered listeners. A failing
// listener is logged and skipped; it never aborts the fan-out or the
// mutation that triggered it.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[uuid.UUID]ChangeListener
}

// NewNotifier returns an empty listener registry.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[uuid.UUID]ChangeListener)}
}

// Subscribe registers a listener and returns the token to unsubscribe it.
// Safe to call while a fan-out is in flight.
func (n *Notifier) Subscribe(l ChangeListener) uuid.UUID {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := uuid.New()
	n.listeners[id] = l
	return id
}

// Unsubscribe removes a listener. Unknown tokens are ignored.
func (n *Notifier) Unsubscribe(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.listeners, id)
}

// CollectionChanged notifies every listener that a project's collection
// changed.
func (n *Notifier) CollectionChanged(project string) {
	for _, l := range n.snapshot() {
		if l.OnCollectionChanged != nil {
			invoke(func() { l.OnCollectionChanged(project) })
		}
	}
}

// AssignmentsChanged notifies every listener that one object's membership
// or assignments changed.
func (n *Notifier) AssignmentsChanged(project, objectFqn string) {
	for _, l := range n.snapshot() {
		if l.OnAssignmentsChanged != nil {
			invoke(func() { l.OnAssignmentsChanged(project, objectFqn) })
		}
	}
}

// snapshot copies the registry so registration changes during a fan-out
// neither lose listeners nor invoke one twice for the same event.
func (n *Notifier) snapshot() []ChangeListener {
	n.mu.RLock()
	defer n.mu.RUnlock()
	listeners := make([]ChangeListener, 0, len(n.listeners))
	for _, l := range n.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}

func invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("annotation listener panicked: %v", r)
		}
	}()
	fn()
}
