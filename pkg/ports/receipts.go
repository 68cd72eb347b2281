package ports

import "context"

// ReceiptSink stores payment-proof attachments. Keys are namespaced by
// timestamp and conversation ID, so concurrent writes from different
// conversations cannot collide.
type ReceiptSink interface {
	Write(ctx context.Context, key string, content []byte) error
}
