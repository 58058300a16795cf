// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory host; the page cache tests need
// Valkey and are skipped when it is unavailable.
package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"primarycat/internal/cache"
	"primarycat/internal/memory"
	"primarycat/internal/middleware"
	"primarycat/internal/models"
	"primarycat/internal/nonce"
	"primarycat/internal/primary"
	tmpl "primarycat/internal/render"
	"primarycat/internal/session"
	"primarycat/internal/taxonomy"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

// fakeSessions records created and destroyed sessions.
type fakeSessions struct {
	created   []*session.Data
	destroyed int
	err       error
}

func (f *fakeSessions) Create(_ context.Context, _ http.ResponseWriter, data *session.Data) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data.ID = "sess-" + data.UserID.String()
	f.created = append(f.created, data)
	return data.ID, nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed++
	return nil
}

// fakeUsers accepts one email/password pair.
type fakeUsers struct {
	user     *models.User
	password string
	err      error
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && strings.EqualFold(email, f.user.Email) && password == f.password {
		return f.user, nil
	}
	return nil, nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Host     *memory.Host
	Nonces   *nonce.Issuer
	Service  *primary.Service
	Registry *taxonomy.Registry
	Sessions *fakeSessions
	Users    *fakeUsers
	Admin    *Admin
	Auth     *Auth
	Public   *Public

	Uncategorized, News, World, Sports models.Category

	Editor *session.Data
	Author *session.Data
}

// newTestEnv creates a complete test environment with seeded categories.
func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, pageCache *cache.PageCache) *testEnv {
	t.Helper()

	renderer, err := tmpl.New(false)
	require.NoError(t, err)

	h := memory.NewHost()
	env := &testEnv{Host: h}
	env.Uncategorized = h.AddCategory(models.Category{Name: "Uncategorized", Slug: "uncategorized", SortOrder: 0})
	env.News = h.AddCategory(models.Category{Name: "News", Slug: "news", SortOrder: 1})
	env.World = h.AddCategory(models.Category{Name: "World", Slug: "world", ParentID: &env.News.ID})
	env.Sports = h.AddCategory(models.Category{Name: "Sports", Slug: "sports", SortOrder: 2})

	env.Registry = taxonomy.NewRegistry()
	require.NoError(t, env.Registry.Register(taxonomy.Definition{
		Name:             models.TaxonomyCategory,
		Label:            "Categories",
		Hierarchical:     true,
		ManageCapability: "manage_categories",
		AdminColumn:      true,
		ObjectTypes:      []models.ContentType{models.ContentTypePost},
	}))
	require.NoError(t, env.Registry.Register(primary.Scheme))

	env.Nonces = nonce.New("handler-test-secret", time.Hour)
	env.Service = primary.New(h.Primary(), env.Nonces)
	env.Sessions = &fakeSessions{}
	env.Users = &fakeUsers{}

	env.Admin = NewAdmin(renderer, h.Contents(), h.Categories(), h, env.Registry, env.Service, pageCache)
	env.Auth = NewAuth(renderer, env.Sessions, env.Users)
	env.Public = NewPublic(renderer, h.Contents(), h.Categories(), env.Service, pageCache)

	env.Editor = &session.Data{ID: "sess-editor", UserID: uuid.New(), Email: "editor@primarycat.local", DisplayName: "Eddie Editor", Role: models.RoleEditor}
	env.Author = &session.Data{ID: "sess-author", UserID: uuid.New(), Email: "author@primarycat.local", DisplayName: "Ann Author", Role: models.RoleAuthor}
	return env
}

// addPost stores a published post by the editor.
func (e *testEnv) addPost(title, slug string) models.Content {
	return e.Host.AddContent(models.Content{
		Type:     models.ContentTypePost,
		Title:    title,
		Slug:     slug,
		Status:   models.ContentStatusPublished,
		AuthorID: e.Editor.UserID,
	})
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return middleware.WithSession(ctx, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both chi URL param and session to a request.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	r = withChiURLParam(r, key, value)
	return r.WithContext(ctxWithSession(r.Context(), sess))
}

// parseHTML parses a response body for assertions.
func parseHTML(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}
