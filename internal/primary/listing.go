// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package primary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"primarycat/internal/models"
)

// ListingLink is one rendered entry of a listing.
type ListingLink struct {
	URL   string
	Title string
}

var listingTmpl = template.Must(template.New("listing").Parse(
	`<ul class="primary-category">{{range .}}<li><a href="{{.URL}}">{{.Title}}</a></li>{{end}}</ul>`,
))

// Permalink returns the public URL of an item as used in listings.
func (s *Service) Permalink(item models.Content) string {
	return s.permalink(item)
}

// FindByPrimaryCategory returns the published items whose primary category
// has the given slug, restricted to types (posts when empty). Order is the
// store's: newest first. An unknown slug yields an empty slice.
func (s *Service) FindByPrimaryCategory(ctx context.Context, slug string, types ...models.ContentType) ([]models.Content, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrMissingCategory
	}
	if len(types) == 0 {
		types = []models.ContentType{models.ContentTypePost}
	}

	cat, err := s.host.Categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find by primary category %q: %w", slug, err)
	}
	if cat == nil {
		return []models.Content{}, nil
	}

	items, err := s.host.Content.ListByTerm(ctx, models.TaxonomyPrimaryCategory, cat.ID, types)
	if err != nil {
		return nil, fmt.Errorf("find by primary category %q: %w", slug, err)
	}
	if items == nil {
		items = []models.Content{}
	}
	return items, nil
}

// RenderListing renders the items of FindByPrimaryCategory as an unordered
// list of links. A missing slug returns ErrMissingCategory and no markup.
// No matches, or a failed query, render an empty list.
func (s *Service) RenderListing(ctx context.Context, slug string, types ...models.ContentType) (template.HTML, error) {
	items, err := s.FindByPrimaryCategory(ctx, slug, types...)
	if errors.Is(err, ErrMissingCategory) {
		return "", err
	}
	if err != nil {
		slog.Error("primary category listing query failed", "category", slug, "error", err)
		items = nil
	}

	links := make([]ListingLink, 0, len(items))
	for _, item := range items {
		links = append(links, ListingLink{URL: s.permalink(item), Title: item.Title})
	}

	var buf bytes.Buffer
	if err := listingTmpl.Execute(&buf, links); err != nil {
		return "", fmt.Errorf("render primary category listing: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Shortcode expands a [primary-category] content tag. Recognized
// attributes are category (required slug) and post_type (comma-separated,
// default "post"). Without a category it expands to nothing.
func (s *Service) Shortcode(ctx context.Context, attrs map[string]string) template.HTML {
	slug := strings.TrimSpace(attrs["category"])
	if slug == "" {
		return ""
	}
	types := models.ParseContentTypes(attrs["post_type"], models.ContentTypePost)

	out, err := s.RenderListing(ctx, slug, types...)
	if err != nil {
		slog.Warn("primary category shortcode failed", "category", slug, "error", err)
		return ""
	}
	return out
}
