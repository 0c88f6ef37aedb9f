package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Lister fetches raw tool definitions from a remote catalogue.
type Lister interface {
	// ListDefinitions returns at most limit definitions of the named catalogue.
	ListDefinitions(ctx context.Context, catalogue string, limit int) ([]Definition, error)
}

// Source names a catalogue and how many tools to take from it.
type Source struct {
	// Name is the remote catalogue name.
	Name string
	// Limit bounds the number of descriptors fetched.
	Limit int
}

type cacheKey struct {
	name  string
	limit int
}

// Adapter converts remote catalogues into typed descriptors and keeps them for the process lifetime.
type Adapter struct {
	lister Lister
	logger *slog.Logger

	mu    sync.Mutex
	cache map[cacheKey][]Descriptor
}

// NewAdapter creates an adapter backed by lister.
func NewAdapter(lister Lister, logger *slog.Logger) *Adapter {
	return &Adapter{
		lister: lister,
		logger: logger,
		cache:  make(map[cacheKey][]Descriptor),
	}
}

// ListTools returns the descriptors of a catalogue. Failures wrap ErrCatalogueUnavailable.
func (a *Adapter) ListTools(ctx context.Context, name string, limit int) ([]Descriptor, error) {
	if a == nil || a.lister == nil {
		return nil, fmt.Errorf("%w: no catalogue client configured", ErrCatalogueUnavailable)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: catalogue name is empty", ErrCatalogueUnavailable)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: catalogue %s: limit must be > 0", ErrCatalogueUnavailable, name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := cacheKey{name: name, limit: limit}
	if cached, ok := a.cache[key]; ok {
		return slices.Clone(cached), nil
	}

	defs, err := a.lister.ListDefinitions(ctx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: catalogue %s: %v", ErrCatalogueUnavailable, name, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: catalogue %s returned no tools", ErrCatalogueUnavailable, name)
	}
	if len(defs) > limit {
		defs = defs[:limit]
	}

	descriptors := make([]Descriptor, 0, len(defs))
	for _, def := range defs {
		if def.Toolkit == "" {
			def.Toolkit = name
		}
		descriptor, err := FromDefinition(def)
		if err != nil {
			return nil, fmt.Errorf("%w: catalogue %s: %v", ErrCatalogueUnavailable, name, err)
		}
		descriptors = append(descriptors, descriptor)
	}

	if a.logger != nil {
		a.logger.Info("catalogue loaded", "catalogue", name, "tools", len(descriptors))
	}
	a.cache[key] = descriptors
	return slices.Clone(descriptors), nil
}

// Set is the process-wide, read-only lookup of descriptors by tool id.
type Set struct {
	byID  map[string]Descriptor
	order []string
}

// NewSet merges descriptor groups, rejecting duplicate ids.
func NewSet(groups ...[]Descriptor) (*Set, error) {
	set := &Set{byID: make(map[string]Descriptor)}
	for _, group := range groups {
		for _, descriptor := range group {
			if _, exists := set.byID[descriptor.ID]; exists {
				return nil, fmt.Errorf("duplicate tool id: %s", descriptor.ID)
			}
			set.byID[descriptor.ID] = descriptor
			set.order = append(set.order, descriptor.ID)
		}
	}
	return set, nil
}

// Load fetches every source through the adapter and builds a Set.
func Load(ctx context.Context, adapter *Adapter, sources []Source) (*Set, error) {
	groups := make([][]Descriptor, 0, len(sources))
	for _, source := range sources {
		descriptors, err := adapter.ListTools(ctx, source.Name, source.Limit)
		if err != nil {
			return nil, err
		}
		groups = append(groups, descriptors)
	}
	return NewSet(groups...)
}

// Lookup returns the descriptor with the given id.
func (s *Set) Lookup(id string) (Descriptor, bool) {
	if s == nil {
		return Descriptor{}, false
	}
	descriptor, ok := s.byID[id]
	return descriptor, ok
}

// All returns descriptors in catalogue order.
func (s *Set) All() []Descriptor {
	if s == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len reports the number of descriptors.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
