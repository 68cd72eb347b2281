package ports

import "github.com/lumiflux/orderbot/pkg/domain"

// CatalogProvider supplies the current menu and zone snapshots.
// Both calls are cheap and non-blocking, always returning the most recently
// loaded snapshot. The flow re-reads the provider at the start of every step
// that needs catalog data, so a reload mid-conversation is picked up on the
// next step and never rewrites an already-committed line item.
type CatalogProvider interface {
	Catalog() *domain.Catalog
	Zones() []domain.Zone
}
