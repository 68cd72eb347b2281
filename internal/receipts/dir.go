// Package receipts persists payment-proof attachments to the local filesystem.
package receipts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSink implements ports.ReceiptSink by writing one file per receipt under
// a base directory. Keys are timestamp+conversation scoped, so writes are
// append-only and never collide across conversations.
type DirSink struct {
	base string
}

// NewDirSink creates the sink, ensuring the base directory exists.
func NewDirSink(base string) (*DirSink, error) {
	if base == "" {
		base = "comprovantes"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipts dir: %w", err)
	}
	return &DirSink{base: base}, nil
}

// sanitize keeps the key usable as a single file name. Conversation IDs from
// messaging transports can contain '@' and '/'.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, key)
}

// Write stores the receipt content under the given key.
func (s *DirSink) Write(ctx context.Context, key string, content []byte) error {
	if key == "" {
		return fmt.Errorf("receipt key cannot be empty")
	}
	path := filepath.Join(s.base, sanitize(key))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt %s: %w", key, err)
	}
	return nil
}
