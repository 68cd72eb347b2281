/*
Package domain contains the core domain models for the ordering bot.

It defines the entities the conversation flow operates on, kept pure and free
of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Session: The per-conversation order-in-progress (step, line items, draft).
  - Catalog / Zone: Immutable snapshots of the menu and delivery zones.
  - Inbound / Outbound: Message values exchanged with the transport.
*/
package domain
