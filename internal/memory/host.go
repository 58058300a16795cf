// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory is an in-memory implementation of the storage the primary
// category service runs on. It mirrors the PostgreSQL stores closely enough
// to exercise the service without a database, including legacy states such
// as several primary category rows for one item.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"primarycat/internal/models"
	"primarycat/internal/primary"
)

// termKey identifies the relations of one item under one taxonomy.
type termKey struct {
	contentID uuid.UUID
	tax       models.Taxonomy
}

// Host holds categories, content and term relations behind one mutex.
type Host struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]models.Category
	content    map[uuid.UUID]models.Content
	terms      map[termKey][]uuid.UUID // insertion ordered
	failures   map[string]error
	calls      map[string]int
}

// NewHost returns an empty in-memory host.
func NewHost() *Host {
	return &Host{
		categories: make(map[uuid.UUID]models.Category),
		content:    make(map[uuid.UUID]models.Content),
		terms:      make(map[termKey][]uuid.UUID),
		failures:   make(map[string]error),
		calls:      make(map[string]int),
	}
}

// Primary returns the host as the capability bundle of the service.
func (h *Host) Primary() primary.Host {
	return primary.Host{Terms: h, Categories: h, Content: h}
}

// FailNext makes the next call of the named method return err.
func (h *Host) FailNext(method string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[method] = err
}

// Calls returns how many times the named method ran.
func (h *Host) Calls(method string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.calls[method]
}

// enter records a call and returns a pending injected failure. The caller
// must hold the lock.
func (h *Host) enter(method string) error {
	h.calls[method]++
	if err, ok := h.failures[method]; ok {
		delete(h.failures, method)
		return err
	}
	return nil
}

// --- Fixtures ---

// AddCategory stores a category, assigning an ID when missing.
func (h *Host) AddCategory(c models.Category) models.Category {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
	}
	h.categories[c.ID] = c
	return c
}

// DeleteCategory removes a category but, unlike the database, keeps the
// term rows pointing at it so stale references can be tested.
func (h *Host) DeleteCategory(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.categories, id)
}

// AddContent stores a content item, assigning an ID when missing.
func (h *Host) AddContent(c models.Content) models.Content {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
	}
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		at := c.CreatedAt
		c.PublishedAt = &at
	}
	h.content[c.ID] = c
	return c
}

// InsertTermRow appends a raw relation without any checks.
func (h *Host) InsertTermRow(contentID uuid.UUID, tax models.Taxonomy, categoryID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := termKey{contentID, tax}
	h.terms[k] = append(h.terms[k], categoryID)
}

// TermRows returns a copy of the stored relations.
func (h *Host) TermRows(contentID uuid.UUID, tax models.Taxonomy) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]uuid.UUID(nil), h.terms[termKey{contentID, tax}]...)
}

// --- primary.TermStore ---

// ItemTermIDs implements primary.TermStore.
func (h *Host) ItemTermIDs(_ context.Context, contentID uuid.UUID, tax models.Taxonomy) ([]uuid.UUID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("ItemTermIDs"); err != nil {
		return nil, err
	}
	return append([]uuid.UUID(nil), h.terms[termKey{contentID, tax}]...), nil
}

// SetItemTerms implements primary.TermStore.
func (h *Host) SetItemTerms(_ context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryIDs []uuid.UUID, appendTerms bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("SetItemTerms"); err != nil {
		return err
	}
	for _, id := range categoryIDs {
		if _, ok := h.categories[id]; !ok {
			return fmt.Errorf("set item terms: category %s does not exist", id)
		}
	}

	k := termKey{contentID, tax}
	var rows []uuid.UUID
	if appendTerms {
		rows = h.terms[k]
	}
	for _, id := range categoryIDs {
		if !contains(rows, id) {
			rows = append(rows, id)
		}
	}
	h.terms[k] = rows
	return nil
}

// RemoveItemTerms implements primary.TermStore.
func (h *Host) RemoveItemTerms(_ context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryIDs []uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("RemoveItemTerms"); err != nil {
		return err
	}
	k := termKey{contentID, tax}
	var kept []uuid.UUID
	for _, id := range h.terms[k] {
		if !contains(categoryIDs, id) {
			kept = append(kept, id)
		}
	}
	h.terms[k] = kept
	return nil
}

// HasItemTerm implements primary.TermStore.
func (h *Host) HasItemTerm(_ context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryID uuid.UUID) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("HasItemTerm"); err != nil {
		return false, err
	}
	return contains(h.terms[termKey{contentID, tax}], categoryID), nil
}

// --- primary.CategoryDirectory ---

// FindBySlug implements primary.CategoryDirectory.
func (h *Host) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("FindBySlug"); err != nil {
		return nil, err
	}
	return h.bySlug(slug), nil
}

// Resolve implements primary.CategoryDirectory.
func (h *Host) Resolve(_ context.Context, ref string) (*models.Category, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("Resolve"); err != nil {
		return nil, err
	}
	if id, err := uuid.Parse(ref); err == nil {
		if c, ok := h.categories[id]; ok {
			return &c, nil
		}
		return nil, nil
	}
	return h.bySlug(ref), nil
}

func (h *Host) bySlug(slug string) *models.Category {
	for _, c := range h.categories {
		if c.Slug == slug {
			return &c
		}
	}
	return nil
}

// FlatTree implements primary.CategoryDirectory.
func (h *Host) FlatTree(_ context.Context) ([]models.Category, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("FlatTree"); err != nil {
		return nil, err
	}
	flat := make([]models.Category, 0, len(h.categories))
	for _, c := range h.categories {
		flat = append(flat, c)
	}
	sort.Slice(flat, func(i, j int) bool {
		if flat[i].SortOrder != flat[j].SortOrder {
			return flat[i].SortOrder < flat[j].SortOrder
		}
		return flat[i].Name < flat[j].Name
	})
	return models.FlattenCategoryTree(models.BuildCategoryTree(flat)), nil
}

// --- primary.ContentQuery ---

// FindByID implements primary.ContentQuery.
func (h *Host) FindByID(_ context.Context, id uuid.UUID) (*models.Content, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("FindByID"); err != nil {
		return nil, err
	}
	c, ok := h.content[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ListByTerm implements primary.ContentQuery.
func (h *Host) ListByTerm(_ context.Context, tax models.Taxonomy, categoryID uuid.UUID, types []models.ContentType) ([]models.Content, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("ListByTerm"); err != nil {
		return nil, err
	}

	var items []models.Content
	for _, c := range h.content {
		if !c.IsPublished() || !hasType(types, c.Type) {
			continue
		}
		if contains(h.terms[termKey{c.ID, tax}], categoryID) {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].PublishedAt, items[j].PublishedAt
		if a != nil && b != nil && !a.Equal(*b) {
			return a.After(*b)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func hasType(types []models.ContentType, ct models.ContentType) bool {
	for _, t := range types {
		if t == ct {
			return true
		}
	}
	return false
}
