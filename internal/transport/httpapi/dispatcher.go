package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumiflux/orderbot/pkg/domain"
)

// Dispatcher implements ports.MessageDispatcher by POSTing replies to the
// messaging provider's send endpoint.
type Dispatcher struct {
	url    string
	client *http.Client
}

// NewDispatcher creates an HTTP dispatcher for the given send URL.
func NewDispatcher(url string) *Dispatcher {
	return &Dispatcher{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Send delivers one reply.
func (d *Dispatcher) Send(ctx context.Context, msg domain.Outbound) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send endpoint returned %s", resp.Status)
	}
	return nil
}

// LogDispatcher logs replies instead of delivering them. Used when no send
// URL is configured (development mode).
type LogDispatcher struct {
	Logger *slog.Logger
}

// Send logs the reply.
func (d *LogDispatcher) Send(ctx context.Context, msg domain.Outbound) error {
	d.Logger.Info("Outbound reply (no SEND_URL configured)",
		"conversation_id", msg.ConversationID,
		"text", msg.Text,
	)
	return nil
}
