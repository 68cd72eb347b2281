package bot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiflux/orderbot/internal/bot"
	"github.com/lumiflux/orderbot/internal/metrics"
	"github.com/lumiflux/orderbot/pkg/adapters/memory"
	"github.com/lumiflux/orderbot/pkg/domain"
	"github.com/lumiflux/orderbot/pkg/flow"
	"github.com/lumiflux/orderbot/pkg/session"
)

const trigger = "Olá, quero ver o LumiFlux Bot em ação!"

type fakeProvider struct{}

func (fakeProvider) Catalog() *domain.Catalog {
	return &domain.Catalog{
		Category: "Lanches",
		Items:    []domain.Item{{ID: 1, Name: "X", UnitPrice: 10}},
	}
}

func (fakeProvider) Zones() []domain.Zone {
	return []domain.Zone{{Name: "Z", Fee: 5}}
}

type fakeSink struct{}

func (fakeSink) Write(ctx context.Context, key string, content []byte) error { return nil }

// recordingDispatcher captures everything the bot sends.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []domain.Outbound
}

func (d *recordingDispatcher) Send(ctx context.Context, msg domain.Outbound) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msg)
	return nil
}

func (d *recordingDispatcher) all() []domain.Outbound {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Outbound(nil), d.sent...)
}

func newTestBot(t *testing.T, idle time.Duration) (*bot.Bot, *recordingDispatcher, *session.Manager) {
	t.Helper()
	machine := flow.NewMachine(flow.Config{
		BotName:        "LumiFlux Bot",
		TriggerPhrase:  trigger,
		PixKey:         "pix@exemplo.com",
		SupportContact: "5541998119767",
	}, fakeProvider{}, fakeSink{})

	sessions := session.NewManager(memory.NewStore())
	dispatcher := &recordingDispatcher{}

	b := bot.New(machine, sessions, dispatcher, metrics.New(), idle)
	t.Cleanup(b.Close)
	return b, dispatcher, sessions
}

func text(id, body string) domain.Inbound {
	return domain.Inbound{ConversationID: id, Text: body}
}

func TestBot_DropsGroupAndSelfEvents(t *testing.T) {
	b, dispatcher, sessions := newTestBot(t, time.Minute)
	ctx := context.Background()

	group := text("g1", trigger)
	group.IsGroup = true
	require.NoError(t, b.HandleInbound(ctx, group))

	self := text("c1", trigger)
	self.FromSelf = true
	require.NoError(t, b.HandleInbound(ctx, self))

	assert.Empty(t, dispatcher.all(), "dropped events produce no reply")

	ids, err := sessions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "dropped events create no session")
}

func TestBot_FullOrderThroughHandler(t *testing.T) {
	b, dispatcher, _ := newTestBot(t, time.Minute)
	ctx := context.Background()

	for _, body := range []string{trigger, "1", "1", "2", "finalizar", "Maria", "Rua A, 123", "2"} {
		require.NoError(t, b.HandleInbound(ctx, text("c1", body)))
	}

	sent := dispatcher.all()
	require.NotEmpty(t, sent)
	last := sent[len(sent)-1]
	assert.Equal(t, "c1", last.ConversationID)
	assert.Contains(t, last.Text, "Pedido confirmado, Maria!")
	assert.Contains(t, sent[len(sent)-2].Text, "*Total:* R$ 25,00")
}

func TestBot_SilentForStrangers(t *testing.T) {
	b, dispatcher, _ := newTestBot(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, b.HandleInbound(ctx, text("c2", "oi, tudo bem?")))
	assert.Empty(t, dispatcher.all())
}

func TestBot_IdleExpiryNotifiesOnce(t *testing.T) {
	b, dispatcher, sessions := newTestBot(t, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, b.HandleInbound(ctx, text("c1", trigger)))
	require.NoError(t, b.HandleInbound(ctx, text("c1", "1")))
	baseline := len(dispatcher.all())

	// Silence until the watchdog fires.
	time.Sleep(150 * time.Millisecond)

	sent := dispatcher.all()
	require.Len(t, sent, baseline+1, "exactly one expiry notice")
	assert.Contains(t, sent[len(sent)-1].Text, "inatividade")

	sess, err := sessions.Load(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, sess.Active)
	assert.Equal(t, domain.StepZone, sess.Step)
}

func TestBot_DormantSessionExpiresSilently(t *testing.T) {
	b, dispatcher, _ := newTestBot(t, 50*time.Millisecond)
	ctx := context.Background()

	// Non-trigger message arms the timer but never activates the session.
	require.NoError(t, b.HandleInbound(ctx, text("c1", "oi")))
	time.Sleep(150 * time.Millisecond)

	assert.Empty(t, dispatcher.all())
}

func TestBot_ExitCancelsWatchdog(t *testing.T) {
	b, dispatcher, _ := newTestBot(t, 60*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, b.HandleInbound(ctx, text("c1", trigger)))
	require.NoError(t, b.HandleInbound(ctx, text("c1", "sair")))
	baseline := len(dispatcher.all())

	time.Sleep(150 * time.Millisecond)
	assert.Len(t, dispatcher.all(), baseline, "no expiry notice after an explicit exit")
}

func TestBot_ConcurrentConversations(t *testing.T) {
	b, dispatcher, _ := newTestBot(t, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, b.HandleInbound(ctx, text(id, trigger)))
			assert.NoError(t, b.HandleInbound(ctx, text(id, "1")))
		}(id)
	}
	wg.Wait()

	perConv := make(map[string]int)
	for _, out := range dispatcher.all() {
		perConv[out.ConversationID]++
	}
	for _, id := range ids {
		assert.Equal(t, 2, perConv[id], "conversation %s gets greeting + menu", id)
	}
}
