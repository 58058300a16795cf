// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, created_at, updated_at`

type rowScanner interface{ Scan(...any) error }

// scanCategory reads categoryColumns in order, followed by any extra
// destinations the query selects after them.
func scanCategory(row rowScanner, extra ...any) (*models.Category, error) {
	var c models.Category
	dest := append([]any{
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every category in display order. PostCount is the number of
// items filed under it in the category classification.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.sort_order,
		       c.created_at, c.updated_at, COUNT(ct.content_id)
		FROM categories c
		LEFT JOIN content_terms ct ON ct.category_id = c.id AND ct.taxonomy = $1
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`, models.TaxonomyCategory)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var count int
		c, err := scanCategory(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.PostCount = count
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns the categories nested under their parents.
func (s *CategoryStore) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.BuildCategoryTree(flat), nil
}

// FlatTree returns the tree in depth-first order with Depth set, ready for
// an indented <select>.
func (s *CategoryStore) FlatTree(ctx context.Context) ([]models.Category, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return models.FlattenCategoryTree(tree), nil
}

// FindByID returns the category with the given ID, or nil.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.findOne(ctx, "id", id)
}

// FindBySlug returns the category with the given slug, or nil.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, "slug", slug)
}

func (s *CategoryStore) findOne(ctx context.Context, column string, arg any) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+column+` = $1`, arg)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by %s: %w", column, err)
	}
	return c, nil
}

// Resolve looks up a category from an untrusted form value, which may be
// either a UUID or a slug. Returns nil if nothing matches.
func (s *CategoryStore) Resolve(ctx context.Context, ref string) (*models.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		return s.FindByID(ctx, id)
	}
	return s.FindBySlug(ctx, ref)
}

// Create inserts c and returns the stored row.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// Delete removes a category. Its children move to the top level and every
// term row pointing at it goes with it, both via foreign key actions.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// NextSortOrder returns the sort_order that places a new category last
// among its siblings. A nil parentID means the top level.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sort_order) + 1, 0)
		FROM categories
		WHERE parent_id IS NOT DISTINCT FROM $1
	`, parentID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	return next, nil
}
