package session

import (
	"sync"
	"time"
)

// Watchdog owns one idle timer per conversation and fires a callback when a
// conversation has been silent for the configured duration.
//
// Touch rearms the timer (cancel-then-restart); a conversation never has more
// than one pending timer, and a canceled timer can never fire after a newer
// one has been armed for the same conversation.
type Watchdog struct {
	timeout time.Duration
	expire  func(conversationID string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatchdog creates a Watchdog firing expire after timeout of inactivity.
// The callback runs on the timer goroutine; it must arrange its own
// serialization (e.g. Manager.WithLock) before touching the session.
func NewWatchdog(timeout time.Duration, expire func(conversationID string)) *Watchdog {
	return &Watchdog{
		timeout: timeout,
		expire:  expire,
		timers:  make(map[string]*time.Timer),
	}
}

// Touch rearms the idle timer for the conversation.
func (w *Watchdog) Touch(conversationID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[conversationID]; ok {
		t.Stop()
	}

	var handle *time.Timer
	handle = time.AfterFunc(w.timeout, func() {
		w.mu.Lock()
		// A Stop can lose the race with the timer goroutine; only the
		// currently armed handle is allowed to expire the conversation.
		if w.timers[conversationID] != handle {
			w.mu.Unlock()
			return
		}
		delete(w.timers, conversationID)
		w.mu.Unlock()

		w.expire(conversationID)
	})
	w.timers[conversationID] = handle
}

// Cancel stops and forgets the timer for the conversation, if any.
func (w *Watchdog) Cancel(conversationID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[conversationID]; ok {
		t.Stop()
		delete(w.timers, conversationID)
	}
}

// Stop cancels every pending timer. Used on shutdown.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
}
