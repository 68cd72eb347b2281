package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumiflux/orderbot/pkg/session"
)

// expiryRecorder counts expirations per conversation.
type expiryRecorder struct {
	mu    sync.Mutex
	fired map[string]int
}

func newExpiryRecorder() *expiryRecorder {
	return &expiryRecorder{fired: make(map[string]int)}
}

func (r *expiryRecorder) expire(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired[id]++
}

func (r *expiryRecorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fired[id]
}

func TestWatchdog_FiresExactlyOnce(t *testing.T) {
	rec := newExpiryRecorder()
	w := session.NewWatchdog(30*time.Millisecond, rec.expire)
	defer w.Stop()

	w.Touch("a")
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, rec.count("a"))
}

func TestWatchdog_TouchRearms(t *testing.T) {
	rec := newExpiryRecorder()
	w := session.NewWatchdog(60*time.Millisecond, rec.expire)
	defer w.Stop()

	w.Touch("a")
	// Keep touching before the timeout elapses; the timer must never fire.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		w.Touch("a")
	}
	assert.Equal(t, 0, rec.count("a"))

	// Then let it expire once.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, rec.count("a"))
}

func TestWatchdog_CancelPreventsFire(t *testing.T) {
	rec := newExpiryRecorder()
	w := session.NewWatchdog(30*time.Millisecond, rec.expire)
	defer w.Stop()

	w.Touch("a")
	w.Cancel("a")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, 0, rec.count("a"))
}

func TestWatchdog_ConversationsAreIndependent(t *testing.T) {
	rec := newExpiryRecorder()
	w := session.NewWatchdog(40*time.Millisecond, rec.expire)
	defer w.Stop()

	w.Touch("a")
	w.Touch("b")
	time.Sleep(20 * time.Millisecond)
	w.Touch("b") // keep b alive past a's expiry

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, rec.count("a"))
	assert.Equal(t, 0, rec.count("b"))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, rec.count("b"))
}
