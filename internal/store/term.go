// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

// TermStore manages content-to-category relations in the content_terms
// table. Each row is keyed by taxonomy, so ordinary membership and the
// primary category designation are stored side by side.
type TermStore struct {
	db *sql.DB
}

// NewTermStore creates a new TermStore with the given database connection.
func NewTermStore(db *sql.DB) *TermStore {
	return &TermStore{db: db}
}

// ItemTermIDs returns the category IDs related to the item under the
// taxonomy, oldest relation first.
func (s *TermStore) ItemTermIDs(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id FROM content_terms
		WHERE content_id = $1 AND taxonomy = $2
		ORDER BY created_at, category_id
	`, contentID, tax)
	if err != nil {
		return nil, fmt.Errorf("list item terms: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item term: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetItemTerms relates the item to the categories. With appendTerms false
// the item's existing relations under the taxonomy are replaced in the same
// transaction; with true they are kept and duplicates are ignored.
func (s *TermStore) SetItemTerms(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryIDs []uuid.UUID, appendTerms bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if !appendTerms {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM content_terms WHERE content_id = $1 AND taxonomy = $2`,
			contentID, tax)
		if err != nil {
			return fmt.Errorf("clear item terms: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO content_terms (content_id, taxonomy, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare item terms: %w", err)
	}
	defer stmt.Close()

	for _, id := range categoryIDs {
		if _, err := stmt.ExecContext(ctx, contentID, tax, id); err != nil {
			return fmt.Errorf("set item term %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// RemoveItemTerms deletes the given relations. Rows that do not exist are
// ignored.
func (s *TermStore) RemoveItemTerms(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM content_terms
		WHERE content_id = $1 AND taxonomy = $2 AND category_id = ANY($3::uuid[])
	`, contentID, tax, uuidStrings(categoryIDs))
	if err != nil {
		return fmt.Errorf("remove item terms: %w", err)
	}
	return nil
}

// HasItemTerm reports whether the item is related to the category under
// the taxonomy.
func (s *TermStore) HasItemTerm(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM content_terms
			WHERE content_id = $1 AND taxonomy = $2 AND category_id = $3
		)
	`, contentID, tax, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has item term: %w", err)
	}
	return exists, nil
}

// NamesByContent returns, for each of the given content items, the names
// of its categories under the taxonomy, oldest relation first. Items with
// no relations are absent from the map.
func (s *TermStore) NamesByContent(ctx context.Context, tax models.Taxonomy, contentIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string)
	if len(contentIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.content_id, c.name
		FROM content_terms t
		JOIN categories c ON c.id = t.category_id
		WHERE t.taxonomy = $1 AND t.content_id = ANY($2::uuid[])
		ORDER BY t.created_at, t.category_id
	`, tax, uuidStrings(contentIDs))
	if err != nil {
		return nil, fmt.Errorf("term names by content: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan term name: %w", err)
		}
		result[id] = append(result[id], name)
	}
	return result, rows.Err()
}

// uuidStrings converts IDs to their text form so they can be bound as a
// array parameter and cast to uuid[] in SQL.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
