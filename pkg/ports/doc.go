/*
Package ports defines the driven ports (interfaces) for the ordering bot.

These interfaces decouple the conversation flow from external implementations,
allowing it to work with various session stores, catalog sources, messaging
transports and receipt sinks.

# Key Interfaces

  - SessionStore: Persisting and loading per-conversation sessions.
  - CatalogProvider: Read-only access to the current menu/zone snapshot.
  - MessageDispatcher: Delivering replies to the messaging transport.
  - ReceiptSink: Storing payment-proof attachments.
  - DistributedLocker: Cross-replica serialization of one conversation.
*/
package ports
