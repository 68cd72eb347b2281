/*
Package bot wires the conversation flow to its collaborators: the session
manager, the idle watchdog, the dispatcher and the metrics.

All handling for one conversation happens under that conversation's lock, so
a second message arriving while the first is still suspended on I/O can never
read a half-stepped session.
*/
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumiflux/orderbot/internal/logging"
	"github.com/lumiflux/orderbot/internal/metrics"
	"github.com/lumiflux/orderbot/pkg/domain"
	"github.com/lumiflux/orderbot/pkg/flow"
	"github.com/lumiflux/orderbot/pkg/ports"
	"github.com/lumiflux/orderbot/pkg/session"
)

// Bot handles inbound events end to end.
type Bot struct {
	machine    *flow.Machine
	sessions   *session.Manager
	dispatcher ports.MessageDispatcher
	watchdog   *session.Watchdog
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures the Bot.
type Option func(*Bot)

// WithLogger configures a logger for the Bot.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// New creates the Bot and arms its idle watchdog.
func New(machine *flow.Machine, sessions *session.Manager, dispatcher ports.MessageDispatcher, m *metrics.Metrics, idleTimeout time.Duration, opts ...Option) *Bot {
	b := &Bot{
		machine:    machine,
		sessions:   sessions,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.watchdog = session.NewWatchdog(idleTimeout, b.expire)
	return b
}

// Close stops every pending idle timer.
func (b *Bot) Close() {
	b.watchdog.Stop()
}

// HandleInbound processes one event from the messaging transport.
// Group conversations and self-originated messages never reach the state
// machine.
func (b *Bot) HandleInbound(ctx context.Context, msg domain.Inbound) error {
	if msg.IsGroup || msg.FromSelf {
		b.metrics.MessagesDropped.Inc()
		return nil
	}
	b.metrics.MessagesReceived.Inc()

	id := msg.ConversationID
	b.watchdog.Touch(id)

	return b.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		// Plain store access: the manager's lock is already held and its
		// mutexes are not reentrant.
		store := b.sessions.Store()

		sess, err := store.Load(ctx, id)
		if err == domain.ErrSessionNotFound {
			sess = domain.NewSession(id)
		} else if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		wasActive := sess.Active

		res, err := b.machine.Step(ctx, sess, msg)
		if err != nil {
			return fmt.Errorf("failed to step conversation: %w", err)
		}

		if err := store.Save(ctx, id, sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		switch {
		case !wasActive && sess.Active:
			b.metrics.ActiveSessions.Inc()
		case wasActive && !sess.Active:
			b.metrics.ActiveSessions.Dec()
			b.watchdog.Cancel(id)
		}
		if res.Confirmed {
			b.metrics.OrdersConfirmed.Inc()
			b.logger.Info("Order confirmed",
				"conversation_id", id,
				"event_id", msg.EventID,
			)
		}

		for _, out := range res.Replies {
			b.send(ctx, out, msg.EventID)
		}
		return nil
	})
}

// send delivers one reply, logging instead of failing the whole step: a
// dropped reply is recoverable (the customer re-prompts), a lost session
// mutation is not.
func (b *Bot) send(ctx context.Context, out domain.Outbound, eventID string) {
	if err := b.dispatcher.Send(ctx, out); err != nil {
		b.logger.Error("Failed to send reply",
			"conversation_id", out.ConversationID,
			"event_id", eventID,
			"err", err,
		)
		return
	}
	b.metrics.RepliesSent.Inc()
}

// expire is the watchdog callback: reset the session and notify the customer
// exactly once. Dormant sessions expire silently.
func (b *Bot) expire(id string) {
	ctx := context.Background()
	err := b.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		store := b.sessions.Store()

		sess, err := store.Load(ctx, id)
		if err == domain.ErrSessionNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		wasActive := sess.Active
		sess.Reset()
		if err := store.Save(ctx, id, sess); err != nil {
			return err
		}
		if !wasActive {
			return nil
		}

		b.metrics.SessionsExpired.Inc()
		b.metrics.ActiveSessions.Dec()
		b.logger.Info("Session expired by inactivity", "conversation_id", id)
		b.send(ctx, b.machine.ExpiryNotice(id), "")
		return nil
	})
	if err != nil {
		b.logger.Error("Failed to expire session", "conversation_id", id, "err", err)
	}
}
