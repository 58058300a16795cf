// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"primarycat/internal/cache"
	"primarycat/internal/markdown"
	"primarycat/internal/models"
	"primarycat/internal/primary"
	tmpl "primarycat/internal/render"
	"primarycat/internal/shortcode"
)

// ShortcodeName is the content tag that embeds a primary category listing.
const ShortcodeName = "primary-category"

// Public groups handlers for the public-facing site. It checks the Valkey
// page cache before rendering, and stores rendered results on miss.
type Public struct {
	renderer   *tmpl.Renderer
	content    ContentFinder
	categories CategoryFinder
	primary    *primary.Service
	pageCache  *cache.PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil when
// caching is disabled.
func NewPublic(renderer *tmpl.Renderer, content ContentFinder, categories CategoryFinder, svc *primary.Service, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:   renderer,
		content:    content,
		categories: categories,
		primary:    svc,
		pageCache:  pageCache,
	}
}

// Homepage lists published posts, newest first.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.HomepageKey()); ok {
		writeHTML(w, cached)
		return
	}

	posts, err := p.content.ListByType(ctx, models.ContentTypePost)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	published := posts[:0:0]
	for _, post := range posts {
		if post.IsPublished() {
			published = append(published, post)
		}
	}

	rendered, err := p.renderer.Public("home", map[string]any{
		"Title": "",
		"Items": published,
	})
	if err != nil {
		slog.Error("render homepage failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.HomepageKey(), rendered)
	writeHTML(w, rendered)
}

// Page renders a published item by slug. [primary-category] tags in the
// body become listings; tags inside code are shown as written.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.SlugKey(slugParam)); ok {
		writeHTML(w, cached)
		return
	}

	item, err := p.content.FindBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find content by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	bodyHTML, err := p.renderBody(ctx, item.Body)
	if err != nil {
		slog.Error("markdown conversion failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Title":   item.Title,
		"Body":    template.HTML(bodyHTML),
		"Primary": nil,
	}
	if cat, ok := p.primary.PrimaryCategory(ctx, item.ID); ok {
		data["Primary"] = cat
	}

	rendered, err := p.renderer.Public("content", data)
	if err != nil {
		slog.Error("render page failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.SlugKey(slugParam), rendered)
	writeHTML(w, rendered)
}

// renderBody converts a Markdown body to HTML. Each listing tag outside
// code is swapped for a unique token before conversion and the listing
// markup is spliced back afterwards, so titles are never read as Markdown.
func (p *Public) renderBody(ctx context.Context, body string) (string, error) {
	salt := strings.ReplaceAll(uuid.NewString(), "-", "")
	blocks := make(map[string]string)
	marked := shortcode.ExpandOutside(body, ShortcodeName, markdown.InCode(body), func(attrs map[string]string) string {
		token := fmt.Sprintf("primarylisting%sx%dx", salt, len(blocks))
		blocks[token] = string(p.primary.Shortcode(ctx, attrs))
		return token
	})
	return markdown.ToHTMLWithBlocks(marked, blocks)
}

// Category renders the listing of posts whose primary category has the slug.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.CategoryKey(slugParam)); ok {
		writeHTML(w, cached)
		return
	}

	cat, err := p.categories.FindBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find category failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		http.NotFound(w, r)
		return
	}

	listing, err := p.primary.RenderListing(ctx, cat.Slug)
	if err != nil {
		slog.Error("render listing failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rendered, err := p.renderer.Public("category", map[string]any{
		"Title":    cat.Name,
		"Category": cat,
		"Listing":  listing,
	})
	if err != nil {
		slog.Error("render category failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.CategoryKey(slugParam), rendered)
	writeHTML(w, rendered)
}

// listingItem is one entry of the JSON listing.
type listingItem struct {
	ID          uuid.UUID          `json:"id"`
	Type        models.ContentType `json:"type"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	URL         string             `json:"url"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
}

// listingResponse is the body of GET /api/primary-category/{slug}.
type listingResponse struct {
	Category string        `json:"category"`
	Items    []listingItem `json:"items"`
}

// PrimaryCategoryAPI returns the published items whose primary category has
// the slug. post_type takes a comma-separated list of content types.
func (p *Public) PrimaryCategoryAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	types := models.ParseContentTypes(r.URL.Query().Get("post_type"), models.ContentTypePost)

	items, err := p.primary.FindByPrimaryCategory(ctx, slugParam, types...)
	if errors.Is(err, primary.ErrMissingCategory) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "category slug is required"})
		return
	}
	if err != nil {
		slog.Error("primary category query failed", "error", err, "slug", slugParam)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "query failed"})
		return
	}

	resp := listingResponse{Category: slugParam, Items: make([]listingItem, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, listingItem{
			ID:          item.ID,
			Type:        item.Type,
			Title:       item.Title,
			Slug:        item.Slug,
			URL:         p.primary.Permalink(item),
			PublishedAt: item.PublishedAt,
		})
	}
	render.JSON(w, r, resp)
}

// writeHTML sends a rendered page.
func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
