package memory

import (
	"context"
	"sync"

	"github.com/lumiflux/orderbot/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Session
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Session),
	}
}

// clone deep-copies a session, similar to what serialization would do,
// so store state is isolated from caller mutation.
func clone(sess *domain.Session) *domain.Session {
	cp := *sess
	if sess.Items != nil {
		cp.Items = make([]domain.LineItem, len(sess.Items))
		copy(cp.Items, sess.Items)
		for i, it := range sess.Items {
			if it.Options != nil {
				cp.Items[i].Options = append([]domain.SelectedOption(nil), it.Options...)
			}
		}
	}
	if sess.Draft != nil {
		draft := *sess.Draft
		draft.Groups = append([]domain.OptionGroup(nil), sess.Draft.Groups...)
		draft.Selected = append([]domain.SelectedOption(nil), sess.Draft.Selected...)
		cp.Draft = &draft
	}
	return &cp
}

// Save persists the session in memory.
func (s *Store) Save(ctx context.Context, conversationID string, sess *domain.Session) error {
	cp := clone(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[conversationID] = cp
	return nil
}

// Load retrieves the session from memory.
func (s *Store) Load(ctx context.Context, conversationID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[conversationID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller can't mutate store state through the pointer
	return clone(sess), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, conversationID)
	return nil
}

// List returns active conversation IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
