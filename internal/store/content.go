// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

// ContentStore handles all content-related database operations.
// It serves both posts and pages through the unified content table.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, type, title, slug, body, status, author_id, published_at, created_at, updated_at`

// scanContent scans a row into a Content struct.
func scanContent(scanner rowScanner) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.Type, &c.Title, &c.Slug, &c.Body, &c.Status,
		&c.AuthorID, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// queryContent runs a query selecting contentColumns and collects the rows.
func (s *ContentStore) queryContent(ctx context.Context, op, query string, args ...any) ([]models.Content, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListByType returns all content items of the given type, ordered by creation date descending.
func (s *ContentStore) ListByType(ctx context.Context, contentType models.ContentType) ([]models.Content, error) {
	return s.queryContent(ctx, "list content by type", `
		SELECT `+contentColumns+`
		FROM content
		WHERE type = $1
		ORDER BY created_at DESC
	`, contentType)
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a published content item by its slug. Used for public page rendering.
func (s *ContentStore) FindBySlug(ctx context.Context, slug string) (*models.Content, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content WHERE slug = $1 AND status = 'published'
	`, slug)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new content item and returns it with the generated ID.
func (s *ContentStore) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	// If publishing, set the published_at timestamp.
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO content (type, title, slug, body, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+contentColumns,
		c.Type, c.Title, c.Slug, c.Body, c.Status, c.AuthorID, c.PublishedAt,
	)
	result, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// ListByTerm returns published content of the given types related to the
// category under the taxonomy, newest first. No limit is applied.
func (s *ContentStore) ListByTerm(ctx context.Context, tax models.Taxonomy, categoryID uuid.UUID, types []models.ContentType) ([]models.Content, error) {
	if len(types) == 0 {
		return nil, nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	return s.queryContent(ctx, "list content by term", `
		SELECT c.id, c.type, c.title, c.slug, c.body, c.status,
		       c.author_id, c.published_at, c.created_at, c.updated_at
		FROM content c
		JOIN content_terms t ON t.content_id = c.id
		WHERE t.taxonomy = $1 AND t.category_id = $2
		  AND c.type = ANY($3::text[]) AND c.status = 'published'
		ORDER BY c.published_at DESC NULLS LAST, c.created_at DESC
	`, tax, categoryID, names)
}
