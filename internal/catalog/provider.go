/*
Package catalog loads the menu and delivery zones from YAML files and serves
them as immutable snapshots.

Snapshots are swapped whole (replace-the-reference), never mutated in place,
so an in-flight conversation step always reads one self-consistent snapshot.
A reload that fails to parse keeps the previous snapshot and only logs.
*/
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/lumiflux/orderbot/internal/logging"
	"github.com/lumiflux/orderbot/pkg/domain"
)

// MenuFile and ZonesFile are the expected file names inside the data dir.
const (
	MenuFile  = "menu.yaml"
	ZonesFile = "zones.yaml"
)

// snapshot bundles the menu and zones loaded together, so one reload swaps
// both consistently.
type snapshot struct {
	catalog *domain.Catalog
	zones   []domain.Zone
}

// Provider implements ports.CatalogProvider over a directory of YAML files.
type Provider struct {
	dir    string
	logger *slog.Logger

	current atomic.Pointer[snapshot]
}

// Option configures the Provider.
type Option func(*Provider)

// WithLogger configures a logger for the Provider.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a Provider reading MenuFile and ZonesFile from dir.
// Call Load once before serving traffic.
func NewProvider(dir string, opts ...Option) *Provider {
	p := &Provider{
		dir:    dir,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load parses both files and swaps the snapshot. Unlike Reload, a failure
// here is fatal to the caller: starting without a catalog makes no sense.
func (p *Provider) Load() error {
	snap, err := p.parse()
	if err != nil {
		return err
	}
	p.current.Store(snap)
	return nil
}

// Reload re-parses the files and swaps the snapshot atomically.
// On failure the previous snapshot stays in place and the error is logged.
func (p *Provider) Reload() {
	snap, err := p.parse()
	if err != nil {
		p.logger.Error("Catalog reload failed, keeping last-good snapshot", "dir", p.dir, "err", err)
		return
	}
	p.current.Store(snap)
	p.logger.Info("Catalog reloaded",
		"items", len(snap.catalog.Items),
		"zones", len(snap.zones),
	)
}

// Catalog returns the current menu snapshot.
func (p *Provider) Catalog() *domain.Catalog {
	return p.current.Load().catalog
}

// Zones returns the current zone list.
func (p *Provider) Zones() []domain.Zone {
	return p.current.Load().zones
}

func (p *Provider) parse() (*snapshot, error) {
	menuRaw, err := os.ReadFile(filepath.Join(p.dir, MenuFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	var cat domain.Catalog
	if err := yaml.Unmarshal(menuRaw, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", MenuFile, err)
	}

	zonesRaw, err := os.ReadFile(filepath.Join(p.dir, ZonesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read zones: %w", err)
	}
	var zones []domain.Zone
	if err := yaml.Unmarshal(zonesRaw, &zones); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ZonesFile, err)
	}

	if len(cat.Items) == 0 {
		return nil, fmt.Errorf("%s has no items", MenuFile)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("%s has no zones", ZonesFile)
	}

	return &snapshot{catalog: &cat, zones: zones}, nil
}

// Watch reloads on file changes in the data dir until ctx is done.
// Editors fire bursts of events for one save, so changes are debounced.
func (p *Provider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(p.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", p.dir, err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if name != MenuFile && name != ZonesFile {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, p.Reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("Catalog watcher error", "err", err)
		}
	}
}
