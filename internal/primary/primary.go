// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package primary lets editors designate one of a post's categories as its
// primary category, and lists content by that designation.
//
// The service owns no storage. Term relationships, the category directory
// and content queries are supplied by the host through a Host bundle, so the
// same rules run against PostgreSQL in production and an in-memory host in
// tests. Every operation is synchronous and request-scoped.
//
// Rules enforced here:
//   - a content item has at most one primary category;
//   - assigning a primary category also makes the item a member of it;
//   - clearing or changing the primary category never removes membership;
//   - the uncategorized category is never offered as a primary category.
package primary

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"primarycat/internal/models"
	"primarycat/internal/taxonomy"
)

const (
	// FieldName is the form field carrying the selected category.
	FieldName = "primary-category"

	// NonceField is the form field carrying the anti-forgery nonce.
	NonceField = "primary-category-nonce"

	// NoneValue is the selector value meaning "no primary category".
	NoneValue = "-1"

	// DefaultUncategorizedSlug is the slug of the default category that is
	// excluded from the selector.
	DefaultUncategorizedSlug = "uncategorized"
)

// ErrMissingCategory is returned when a listing is requested without a
// category slug.
var ErrMissingCategory = errors.New("primary category: category slug is required")

// Scheme declares the primary_category classification. It is flat, managed
// by users who can manage categories, and shown as a column on the posts list.
var Scheme = taxonomy.Definition{
	Name:             models.TaxonomyPrimaryCategory,
	Label:            "Primary Category",
	Hierarchical:     false,
	ManageCapability: "manage_categories",
	AdminColumn:      true,
	ObjectTypes:      []models.ContentType{models.ContentTypePost},
}

// TermStore reads and writes content-to-category relations per taxonomy.
type TermStore interface {
	// ItemTermIDs returns the category IDs related to the item, oldest first.
	ItemTermIDs(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy) ([]uuid.UUID, error)

	// SetItemTerms relates the item to categoryIDs. With appendTerms false
	// the existing relations of that taxonomy are replaced; with true they
	// are kept and duplicates are ignored.
	SetItemTerms(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryIDs []uuid.UUID, appendTerms bool) error

	// RemoveItemTerms deletes the given relations. Missing rows are not an error.
	RemoveItemTerms(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryIDs []uuid.UUID) error

	// HasItemTerm reports whether the item is related to the category.
	HasItemTerm(ctx context.Context, contentID uuid.UUID, tax models.Taxonomy, categoryID uuid.UUID) (bool, error)
}

// CategoryDirectory resolves categories. Lookups return nil, nil when the
// category does not exist.
type CategoryDirectory interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)

	// Resolve accepts an untrusted reference: a category UUID or a slug.
	Resolve(ctx context.Context, ref string) (*models.Category, error)

	// FlatTree returns all categories in display order with Depth set.
	FlatTree(ctx context.Context) ([]models.Category, error)
}

// ContentQuery finds content items.
type ContentQuery interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error)

	// ListByTerm returns published items of the given types related to the
	// category under tax, newest first, without a limit.
	ListByTerm(ctx context.Context, tax models.Taxonomy, categoryID uuid.UUID, types []models.ContentType) ([]models.Content, error)
}

// NonceVerifier issues and checks anti-forgery tokens bound to an action
// and a session.
type NonceVerifier interface {
	Create(action, sessionID string) string
	Verify(token, action, sessionID string) bool
}

// Caller is the authenticated user behind a request.
type Caller interface {
	CanEdit(ctx context.Context, item *models.Content) bool
}

// Host bundles the storage capabilities the service depends on.
type Host struct {
	Terms      TermStore
	Categories CategoryDirectory
	Content    ContentQuery
}

// NonceAction returns the nonce action that protects saves for one item.
func NonceAction(contentID uuid.UUID) string {
	return "primary-category:save:" + contentID.String()
}

// Service implements primary category assignment, lookup and listing.
type Service struct {
	host          Host
	nonces        NonceVerifier
	contentTypes  []models.ContentType
	uncategorized string
	permalink     func(models.Content) string
}

// Option configures a Service.
type Option func(*Service)

// WithContentTypes sets the content types whose primary category can be
// saved. Defaults to posts only.
func WithContentTypes(types ...models.ContentType) Option {
	return func(s *Service) {
		if len(types) > 0 {
			s.contentTypes = types
		}
	}
}

// WithUncategorizedSlug overrides the slug of the category that is never
// offered as a primary category.
func WithUncategorizedSlug(slug string) Option {
	return func(s *Service) {
		if slug != "" {
			s.uncategorized = slug
		}
	}
}

// WithPermalink sets how listing links are built.
func WithPermalink(fn func(models.Content) string) Option {
	return func(s *Service) {
		if fn != nil {
			s.permalink = fn
		}
	}
}

// New creates a Service over the given host.
func New(host Host, nonces NonceVerifier, opts ...Option) *Service {
	s := &Service{
		host:          host,
		nonces:        nonces,
		contentTypes:  []models.ContentType{models.ContentTypePost},
		uncategorized: DefaultUncategorizedSlug,
		permalink: func(c models.Content) string {
			return "/" + c.Slug
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Nonce issues the token the selector embeds for the given item and session.
func (s *Service) Nonce(contentID uuid.UUID, sessionID string) string {
	return s.nonces.Create(NonceAction(contentID), sessionID)
}

// acceptsType reports whether saves apply to the content type.
func (s *Service) acceptsType(ct models.ContentType) bool {
	for _, t := range s.contentTypes {
		if t == ct {
			return true
		}
	}
	return false
}
