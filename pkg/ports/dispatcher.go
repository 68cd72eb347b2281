package ports

import (
	"context"

	"github.com/lumiflux/orderbot/pkg/domain"
)

// MessageDispatcher delivers replies back to a conversation.
// The flow emits outbound messages, and the host implements this interface
// to hand them to the messaging transport.
type MessageDispatcher interface {
	Send(ctx context.Context, msg domain.Outbound) error
}
