package disaster

import (
	"errors"
	"sync"
)

// ErrDisasterNotFound is returned for unknown disaster identifiers.
var ErrDisasterNotFound = errors.New("disaster not found")

// Store exposes the tracked disaster list.
type Store interface {
	List() []Event
	FindByID(id string) (Event, bool)
	AttachStream(disasterID, streamID string) error
}

// MemoryStore implements Store in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Event
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied events.
func NewMemoryStore(items []Event) *MemoryStore {
	copied := make([]Event, len(items))
	for i, item := range items {
		copied[i] = cloneEvent(item)
	}
	return &MemoryStore{items: copied}
}

// List returns a snapshot of every event.
func (s *MemoryStore) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.items))
	for i, item := range s.items {
		out[i] = cloneEvent(item)
	}
	return out
}

// FindByID looks up an event by identifier.
func (s *MemoryStore) FindByID(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return cloneEvent(item), true
		}
	}
	return Event{}, false
}

// AttachStream records that an aid stream funds the given disaster.
func (s *MemoryStore) AttachStream(disasterID, streamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == disasterID {
			s.items[i].AidStreams = append(s.items[i].AidStreams, streamID)
			return nil
		}
	}
	return ErrDisasterNotFound
}

func cloneEvent(e Event) Event {
	e.AidStreams = append([]string{}, e.AidStreams...)
	return e
}
