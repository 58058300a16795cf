// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for PrimaryCat.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"primarycat/internal/auth"
	"primarycat/internal/cache"
	"primarycat/internal/middleware"
	"primarycat/internal/models"
	"primarycat/internal/primary"
	tmpl "primarycat/internal/render"
	"primarycat/internal/slug"
	"primarycat/internal/taxonomy"
)

// ContentFinder reads content items. *store.ContentStore implements it.
type ContentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error)
	// FindBySlug returns published items only.
	FindBySlug(ctx context.Context, slug string) (*models.Content, error)
	ListByType(ctx context.Context, ct models.ContentType) ([]models.Content, error)
}

// CategoryFinder looks categories up by slug.
type CategoryFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// CategoryManager lists and edits categories. *store.CategoryStore
// implements it.
type CategoryManager interface {
	CategoryFinder
	FlatTree(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
}

// TermNamer resolves the category names related to content items.
// *store.TermStore implements it.
type TermNamer interface {
	NamesByContent(ctx context.Context, tax models.Taxonomy, contentIDs []uuid.UUID) (map[uuid.UUID][]string, error)
}

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer   *tmpl.Renderer
	content    ContentFinder
	categories CategoryManager
	terms      TermNamer
	registry   *taxonomy.Registry
	primary    *primary.Service
	pageCache  *cache.PageCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// pageCache may be nil when caching is disabled.
func NewAdmin(renderer *tmpl.Renderer, content ContentFinder, categories CategoryManager, terms TermNamer, registry *taxonomy.Registry, svc *primary.Service, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:   renderer,
		content:    content,
		categories: categories,
		terms:      terms,
		registry:   registry,
		primary:    svc,
		pageCache:  pageCache,
	}
}

// postRow is one line of the posts list. Terms holds one entry per
// registered column, in column order.
type postRow struct {
	Item  models.Content
	Terms [][]string
}

// --- Posts ---

// PostsList renders the posts management page with a column for every
// taxonomy registered to show on it.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	posts, err := a.content.ListByType(ctx, models.ContentTypePost)
	if err != nil {
		slog.Error("list posts failed", "error", err)
	}

	columns := a.registry.Columns(models.ContentTypePost)
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	names := make([]map[uuid.UUID][]string, len(columns))
	for i, col := range columns {
		names[i], err = a.terms.NamesByContent(ctx, col.Name, ids)
		if err != nil {
			slog.Error("load taxonomy column failed", "taxonomy", col.Name, "error", err)
		}
	}

	rows := make([]postRow, len(posts))
	for i, p := range posts {
		rows[i] = postRow{Item: p, Terms: make([][]string, len(columns))}
		for c := range columns {
			rows[i].Terms[c] = names[c][p.ID]
		}
	}

	a.renderer.Page(w, r, "posts_list", &tmpl.PageData{
		Title:   "Posts",
		Section: "posts",
		Data: map[string]any{
			"Columns": columns,
			"Rows":    rows,
		},
	})
}

// PostEdit renders the edit screen of one item with its primary category
// selector.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.content.FindByID(ctx, id)
	if err != nil {
		slog.Error("find content failed", "error", err, "content_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	sess := middleware.SessionFromCtx(ctx)
	if !sess.Caller().CanEdit(ctx, item) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	members, err := a.terms.NamesByContent(ctx, models.TaxonomyCategory, []uuid.UUID{id})
	if err != nil {
		slog.Error("load categories failed", "error", err, "content_id", id)
	}

	data := map[string]any{
		"Item":       item,
		"Categories": members[id],
		"Selector":   nil,
	}
	if def, ok := a.registry.Get(models.TaxonomyPrimaryCategory); ok && def.AppliesTo(item.Type) {
		data["Selector"] = a.primary.Selector(ctx, id, sess.ID)
	}

	a.renderer.Page(w, r, "post_edit", &tmpl.PageData{
		Title:   item.Title,
		Section: "posts",
		Data:    data,
		Flashes: saveFlashes(r.URL.Query()),
	})
}

// SavePrimaryCategory applies a primary category form post. Plain forms are
// redirected back to the edit screen; HTMX and JSON clients get the result
// as JSON. A skipped save never changes stored state.
func (a *Admin) SavePrimaryCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	ac, sub, err := ParsePrimaryCategoryForm(r, id, middleware.SessionFromCtx(ctx))
	if errors.Is(err, errNoSession) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result := a.primary.Save(ctx, ac, sub)

	if result.Outcome != primary.Skipped {
		// Any public page may embed a listing.
		a.pageCache.InvalidateAll(ctx)
	}

	if wantsJSON(r) {
		render.Status(r, saveStatus(result))
		render.JSON(w, r, result)
		return
	}

	q := url.Values{"primary": {result.Outcome.String()}}
	if result.Reason != "" {
		q.Set("reason", string(result.Reason))
	}
	http.Redirect(w, r, "/admin/posts/"+id.String()+"?"+q.Encode(), http.StatusSeeOther)
}

// saveStatus maps a save result to an HTTP status for JSON clients.
func saveStatus(res primary.Result) int {
	switch res.Reason {
	case "":
		return http.StatusOK
	case primary.ReasonBadNonce, primary.ReasonForbidden:
		return http.StatusForbidden
	case primary.ReasonNotFound:
		return http.StatusNotFound
	case primary.ReasonStoreError:
		return http.StatusInternalServerError
	case primary.ReasonAutosave:
		return http.StatusAccepted
	default:
		return http.StatusUnprocessableEntity
	}
}

// saveFlashes turns the redirect query of SavePrimaryCategory into a
// notification.
func saveFlashes(q url.Values) []tmpl.Flash {
	switch q.Get("primary") {
	case "saved":
		return []tmpl.Flash{{Type: "success", Message: "Primary category saved."}}
	case "cleared":
		return []tmpl.Flash{{Type: "success", Message: "Primary category cleared."}}
	case "skipped":
		return []tmpl.Flash{{Type: "warning", Message: "Primary category not changed (" + q.Get("reason") + ")."}}
	}
	return nil
}

// --- Categories ---

// CategoriesList renders the category management page.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.FlatTree(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	sess := middleware.SessionFromCtx(r.Context())
	a.renderer.Page(w, r, "categories", &tmpl.PageData{
		Title:   "Categories",
		Section: "categories",
		Data: map[string]any{
			"Categories": cats,
			"CanManage":  sess != nil && sess.Caller().Can(auth.CapManageCategories),
		},
	})
}

// errorResponse is the JSON body of a failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

// CategoryCreate adds a category from a form post. The slug is derived from
// the name when left blank.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(r.FormValue("name"))
	catSlug := strings.TrimSpace(r.FormValue("slug"))
	if catSlug == "" {
		catSlug = slug.Generate(name)
	} else {
		catSlug = slug.Generate(catSlug)
	}
	description := strings.TrimSpace(r.FormValue("description"))

	if errMsg := validateCategory(name, catSlug, description); errMsg != "" {
		a.categoryError(w, r, http.StatusUnprocessableEntity, errMsg)
		return
	}

	var parentID *uuid.UUID
	if raw := r.FormValue("parent_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			a.categoryError(w, r, http.StatusUnprocessableEntity, "Invalid parent category.")
			return
		}
		parent, err := a.categories.FindByID(ctx, pid)
		if err != nil || parent == nil {
			a.categoryError(w, r, http.StatusUnprocessableEntity, "Parent category does not exist.")
			return
		}
		parentID = &pid
	}

	if existing, err := a.categories.FindBySlug(ctx, catSlug); err == nil && existing != nil {
		a.categoryError(w, r, http.StatusConflict, "A category with this slug already exists.")
		return
	}

	order, err := a.categories.NextSortOrder(ctx, parentID)
	if err != nil {
		slog.Error("next sort order failed", "error", err)
	}

	created, err := a.categories.Create(ctx, &models.Category{
		Name:        name,
		Slug:        catSlug,
		Description: description,
		ParentID:    parentID,
		SortOrder:   order,
	})
	if err != nil {
		slog.Error("create category failed", "error", err, "slug", catSlug)
		a.categoryError(w, r, http.StatusInternalServerError, "Could not create category.")
		return
	}
	slog.Info("category created", "category_id", created.ID, "slug", created.Slug)

	if wantsJSON(r) {
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Memberships and primary category
// assignments pointing at it go with it.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.categoryError(w, r, http.StatusBadRequest, "Invalid ID.")
		return
	}

	cat, err := a.categories.FindByID(ctx, id)
	if err != nil {
		slog.Error("find category failed", "error", err, "category_id", id)
		a.categoryError(w, r, http.StatusInternalServerError, "Could not delete category.")
		return
	}
	if cat == nil {
		a.categoryError(w, r, http.StatusNotFound, "Category not found.")
		return
	}

	if err := a.categories.Delete(ctx, id); err != nil {
		slog.Error("delete category failed", "error", err, "category_id", id)
		a.categoryError(w, r, http.StatusInternalServerError, "Could not delete category.")
		return
	}
	a.pageCache.InvalidateAll(ctx)
	slog.Info("category deleted", "category_id", id, "slug", cat.Slug)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/admin/categories")
	}
	render.JSON(w, r, map[string]string{"deleted": id.String()})
}

// categoryError reports a category admin failure as JSON for scripted
// clients and as plain text otherwise.
func (a *Admin) categoryError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if wantsJSON(r) || r.Method == http.MethodDelete {
		render.Status(r, status)
		render.JSON(w, r, errorResponse{Error: msg})
		return
	}
	http.Error(w, msg, status)
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
