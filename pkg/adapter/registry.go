package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Factory builds an unconnected adapter.
type Factory func(*slog.Logger) Adapter

// errNoType is returned when a target has no type.
var errNoType = errors.New("adapter type not specified")

var backends = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: map[string]Factory{}}

// Register makes a backend available under name. Adapter packages call it
// from init(); a later registration under the same name wins.
func Register(name string, factory Factory) {
	backends.Lock()
	backends.factories[name] = factory
	backends.Unlock()
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	backends.RLock()
	defer backends.RUnlock()
	f, ok := backends.factories[name]
	return f, ok
}

// IsRegistered reports whether a backend called name exists.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// ListAdapters returns the registered backend names in sorted order.
func ListAdapters() []string {
	backends.RLock()
	defer backends.RUnlock()
	return slices.Sorted(maps.Keys(backends.factories))
}

// NewAdapter builds the adapter for cfg.Type without connecting it.
// A nil logger discards output.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, errNoType
	}
	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	return factory(logger), nil
}

// Open builds the adapter for cfg.Type and connects it.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Adapter, error) {
	a, err := NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Type, err)
	}
	return a, nil
}

// UnknownAdapterError reports a target type no backend is registered for.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check your target.type in refdash.yaml", e.Type, e.Available)
}
