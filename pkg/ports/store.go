package ports

import (
	"context"

	"github.com/lumiflux/orderbot/pkg/domain"
)

// SessionStore defines the interface for persisting conversation sessions.
// Implementations must be safe for concurrent use; serialization of access
// to a single conversation is the session Manager's job, not the store's.
type SessionStore interface {
	// Save persists the session for a given conversation ID.
	Save(ctx context.Context, conversationID string, sess *domain.Session) error

	// Load retrieves the session for a given conversation ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, conversationID string) (*domain.Session, error)

	// Delete removes the session for a given conversation ID.
	Delete(ctx context.Context, conversationID string) error

	// List returns the conversation IDs with a stored session.
	List(ctx context.Context) ([]string, error)
}
