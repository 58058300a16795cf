package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedCategories are created when missing. "uncategorized" is the default
// category that is never offered as a primary category.
var seedCategories = []struct {
	name, slug, parent string
	order              int
}{
	{"Uncategorized", "uncategorized", "", 0},
	{"News", "news", "", 1},
	{"World", "world", "news", 0},
	{"Sports", "sports", "", 2},
}

// Seed populates the database with initial development data: a default
// admin user, a small category tree, and a page that lists posts by primary
// category. Existing rows are left alone, so Seed is safe to run repeatedly.
func Seed(ctx context.Context, db *sql.DB) error {
	adminID, err := seedAdmin(ctx, db)
	if err != nil {
		return err
	}

	for _, c := range seedCategories {
		_, err := db.ExecContext(ctx, `
			INSERT INTO categories (name, slug, parent_id, sort_order)
			VALUES ($1, $2, (SELECT id FROM categories WHERE slug = NULLIF($3, '')), $4)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.parent, c.order)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO content (type, title, slug, body, status, author_id, published_at)
		VALUES ('page', 'News Desk', 'news-desk', $1, 'published', $2, NOW())
		ON CONFLICT (slug) DO NOTHING
	`, `<p>Latest stories filed under News:</p>[primary-category category="news"]`, adminID)
	if err != nil {
		return fmt.Errorf("seed news desk page: %w", err)
	}

	slog.Info("database seed applied")
	return nil
}

// seedAdmin creates the default admin user when no users exist and returns
// the ID of an admin.
func seedAdmin(ctx context.Context, db *sql.DB) (string, error) {
	var id string
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE role = 'admin' ORDER BY created_at LIMIT 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("seed check users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("seed bcrypt: %w", err)
	}

	err = db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, 'admin')
		RETURNING id
	`, "admin@primarycat.local", string(hash), "Admin").Scan(&id)
	if err != nil {
		return "", fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@primarycat.local",
		"password", "admin",
	)
	return id, nil
}
