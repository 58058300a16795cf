// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

// ContentView exposes the host's content with the method set of the
// PostgreSQL content store.
type ContentView struct{ h *Host }

// Contents returns the content view of the host.
func (h *Host) Contents() ContentView { return ContentView{h} }

// FindByID returns the item with the given ID, or nil.
func (v ContentView) FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	return v.h.FindByID(ctx, id)
}

// FindBySlug returns the published item with the given slug, or nil.
func (v ContentView) FindBySlug(_ context.Context, slug string) (*models.Content, error) {
	v.h.mu.Lock()
	defer v.h.mu.Unlock()
	if err := v.h.enter("FindContentBySlug"); err != nil {
		return nil, err
	}
	for _, c := range v.h.content {
		if c.Slug == slug && c.IsPublished() {
			return &c, nil
		}
	}
	return nil, nil
}

// ListByType returns all items of the type, newest first by creation.
func (v ContentView) ListByType(_ context.Context, ct models.ContentType) ([]models.Content, error) {
	v.h.mu.Lock()
	defer v.h.mu.Unlock()
	if err := v.h.enter("ListByType"); err != nil {
		return nil, err
	}
	var items []models.Content
	for _, c := range v.h.content {
		if c.Type == ct {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// ListByTerm returns published items related to the category.
func (v ContentView) ListByTerm(ctx context.Context, tax models.Taxonomy, categoryID uuid.UUID, types []models.ContentType) ([]models.Content, error) {
	return v.h.ListByTerm(ctx, tax, categoryID, types)
}

// CategoryView exposes the host's categories with the method set of the
// PostgreSQL category store.
type CategoryView struct{ h *Host }

// Categories returns the category view of the host.
func (h *Host) Categories() CategoryView { return CategoryView{h} }

// FlatTree returns categories in display order.
func (v CategoryView) FlatTree(ctx context.Context) ([]models.Category, error) {
	return v.h.FlatTree(ctx)
}

// FindBySlug returns the category with the slug, or nil.
func (v CategoryView) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return v.h.FindBySlug(ctx, slug)
}

// FindByID returns the category with the ID, or nil.
func (v CategoryView) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	v.h.mu.Lock()
	defer v.h.mu.Unlock()
	if err := v.h.enter("FindCategoryByID"); err != nil {
		return nil, err
	}
	c, ok := v.h.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Create stores a new category. Slugs are unique, as in the database.
func (v CategoryView) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	v.h.mu.Lock()
	defer v.h.mu.Unlock()
	if err := v.h.enter("CreateCategory"); err != nil {
		return nil, err
	}
	if v.h.bySlug(c.Slug) != nil {
		return nil, fmt.Errorf("create category: slug %q already exists", c.Slug)
	}
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	v.h.categories[created.ID] = created
	return &created, nil
}

// Delete removes a category the way the database does: children are
// re-parented to the root and term rows pointing at it are dropped.
func (v CategoryView) Delete(_ context.Context, id uuid.UUID) error {
	v.h.mu.Lock()
	defer v.h.mu.Unlock()
	if err := v.h.enter("DeleteCategory"); err != nil {
		return err
	}
	delete(v.h.categories, id)
	for cid, c := range v.h.categories {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
			v.h.categories[cid] = c
		}
	}
	for k, rows := range v.h.terms {
		var kept []uuid.UUID
		for _, r := range rows {
			if r != id {
				kept = append(kept, r)
			}
		}
		v.h.terms[k] = kept
	}
	return nil
}

// NextSortOrder returns one past the highest sort order under the parent.
func (v CategoryView) NextSortOrder(_ context.Context, parentID *uuid.UUID) (int, error) {
	v.h.mu.RLock()
	defer v.h.mu.RUnlock()
	next := 0
	for _, c := range v.h.categories {
		if sameParent(c.ParentID, parentID) && c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	return next, nil
}

// NamesByContent maps content IDs to the names of their related
// categories under the taxonomy, oldest relation first.
func (h *Host) NamesByContent(_ context.Context, tax models.Taxonomy, contentIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.enter("NamesByContent"); err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID][]string)
	for _, id := range contentIDs {
		for _, catID := range h.terms[termKey{id, tax}] {
			if c, ok := h.categories[catID]; ok {
				result[id] = append(result[id], c.Name)
			}
		}
	}
	return result, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
