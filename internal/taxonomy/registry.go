// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy keeps the classification schemes known to the CMS.
// Features declare their scheme once at startup; the admin screens read the
// registry to decide which columns and capabilities apply.
package taxonomy

import (
	"fmt"
	"sort"
	"sync"

	"primarycat/internal/models"
)

// Definition describes one classification scheme.
type Definition struct {
	Name         models.Taxonomy
	Label        string
	Hierarchical bool

	// ManageCapability is the capability required to create or delete terms.
	ManageCapability string

	// AdminColumn adds a column to the admin content listing.
	AdminColumn bool

	ObjectTypes []models.ContentType
}

// AppliesTo reports whether the scheme is attached to the given content type.
func (d Definition) AppliesTo(ct models.ContentType) bool {
	for _, t := range d.ObjectTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// Registry is a concurrency-safe set of definitions keyed by name.
type Registry struct {
	mu   sync.RWMutex
	defs map[models.Taxonomy]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[models.Taxonomy]Definition)}
}

// Register adds a definition. Registering the same name twice is an error.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("register taxonomy: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("register taxonomy %q: already registered", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name models.Taxonomy) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Columns returns the definitions that contribute an admin listing column
// for the given content type, sorted by name for a stable column order.
func (r *Registry) Columns(ct models.ContentType) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cols []Definition
	for _, def := range r.defs {
		if def.AdminColumn && def.AppliesTo(ct) {
			cols = append(cols, def)
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols
}
