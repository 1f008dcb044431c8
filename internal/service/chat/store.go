// Package chat keeps per-identity conversation history.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guardianlink/backend/internal/model/chat"
)

var (
	ErrIdentityRequired = errors.New("identity is required")
	ErrInvalidRole      = errors.New("role must be user or assistant")
)

// Store is an append-only history keyed by identity. Get on an unknown
// identity returns an empty history.
type Store interface {
	Get(ctx context.Context, identity string) ([]chat.Message, error)
	Append(ctx context.Context, identity string, role chat.Role, content string) (chat.Message, error)
}

// MemoryStore keeps history in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]chat.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[string][]chat.Message)}
}

func (s *MemoryStore) Get(_ context.Context, identity string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.messages[identity]
	out := make([]chat.Message, len(history))
	copy(out, history)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, identity string, role chat.Role, content string) (chat.Message, error) {
	if err := validate(identity, role); err != nil {
		return chat.Message{}, err
	}

	msg := chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages[identity] = append(s.messages[identity], msg)
	s.mu.Unlock()

	return msg, nil
}

func validate(identity string, role chat.Role) error {
	if strings.TrimSpace(identity) == "" {
		return ErrIdentityRequired
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
