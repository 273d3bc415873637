// Package registry catalogues the widget types a dashboard can hold.
//
// The layout engine only reads DefaultSize (for placement) and Title/Category
// (for listing and search); rendering logic lives elsewhere.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/layout"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// Metadata describes one widget type.
type Metadata struct {
	Type        string      `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Category    string      `json:"category" yaml:"category"`
	Icon        string      `json:"icon" yaml:"icon"`
	DefaultSize layout.Size `json:"defaultSize" yaml:"default_size"`
}

// Validate checks that the entry can be placed and listed.
func (m Metadata) Validate() error {
	if m.Type == "" {
		return fmt.Errorf("widget type is required")
	}
	if m.Title == "" {
		return fmt.Errorf("widget type '%s': title is required", m.Type)
	}
	if m.DefaultSize.W <= 0 || m.DefaultSize.H <= 0 {
		return fmt.Errorf("widget type '%s': default size must be positive", m.Type)
	}
	return nil
}

// IDGenerator returns a new opaque, unique widget id per call.
type IDGenerator func() string

// UUIDGenerator generates random UUIDs.
func UUIDGenerator() string {
	return uuid.NewString()
}

// Registry maps widget type tags to metadata. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Metadata
}

// New creates a registry holding entries.
func New(entries ...Metadata) (*Registry, error) {
	r := &Registry{entries: make(map[string]Metadata, len(entries))}
	for _, m := range entries {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an entry. Registering a type twice is an error.
func (r *Registry) Register(m Metadata) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[m.Type]; exists {
		return fmt.Errorf("widget type '%s' is already registered", m.Type)
	}
	r.entries[m.Type] = m
	return nil
}

// Lookup returns the metadata for a type.
func (r *Registry) Lookup(widgetType string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[widgetType]
	return m, ok
}

// List returns every entry ordered by category, then title.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	list := make([]Metadata, 0, len(r.entries))
	for _, m := range r.entries {
		list = append(list, m)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return list[i].Title < list[j].Title
	})
	return list
}

// Search fuzzy-matches query against "title category" of every entry, best
// match first. An empty query returns List().
func (r *Registry) Search(query string) []Metadata {
	all := r.List()
	if query == "" {
		return all
	}

	searchStrings := make([]string, len(all))
	for i, m := range all {
		searchStrings[i] = m.Title + " " + m.Category
	}

	matches := fuzzy.Find(query, searchStrings)
	results := make([]Metadata, 0, len(matches))
	for _, match := range matches {
		results = append(results, all[match.Index])
	}
	return results
}

// NewWidget builds a widget of the given type with the registry's default
// size and a fresh id. A nil newID falls back to UUIDGenerator.
func (r *Registry) NewWidget(widgetType string, newID IDGenerator) (dashboard.Widget, error) {
	m, ok := r.Lookup(widgetType)
	if !ok {
		return dashboard.Widget{}, fmt.Errorf("unknown widget type '%s'", widgetType)
	}
	if newID == nil {
		newID = UUIDGenerator
	}

	return dashboard.Widget{
		ID:     newID(),
		Type:   m.Type,
		Config: dashboard.Config{},
		Size:   m.DefaultSize,
	}, nil
}
