// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"primarycat/internal/database"
	"primarycat/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "primarycat")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "primarycat")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testAuthor creates a throwaway author and removes it when the test ends.
// Register it before any content so its cleanup runs last.
func testAuthor(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	email := "author-" + uuid.NewString()[:8] + "@store-test.local"
	u, err := NewUserStore(db).Create(context.Background(), email, "pass", "Author", models.RoleAuthor)
	if err != nil {
		t.Fatalf("create test author: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return u.ID
}

// testCategory creates a category with a unique slug and removes it when
// the test ends.
func testCategory(t *testing.T, db *sql.DB, name string, parentID *uuid.UUID) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), &models.Category{
		Name:     name,
		Slug:     "test-cat-" + uuid.NewString()[:8],
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, c.Slug) })
	return c
}

// testContent creates a content item and removes it when the test ends.
func testContent(t *testing.T, db *sql.DB, authorID uuid.UUID, ct models.ContentType, status models.ContentStatus) *models.Content {
	t.Helper()
	c, err := NewContentStore(db).Create(context.Background(), &models.Content{
		Type:     ct,
		Title:    "Test " + string(ct),
		Slug:     "test-content-" + uuid.NewString()[:8],
		Body:     "<p>body</p>",
		Status:   status,
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("create test content: %v", err)
	}
	t.Cleanup(func() { cleanContent(t, db, c.Slug) })
	return c
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanContent removes test content by slug. Call in t.Cleanup().
func cleanContent(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM content WHERE slug = $1", slug)
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}
