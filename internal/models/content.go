// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes between posts and pages in the unified content table.
type ContentType string

const (
	ContentTypePost ContentType = "post"
	ContentTypePage ContentType = "page"
)

// ParseContentTypes splits a comma-separated list such as "post, page" into
// content types. Blank entries are dropped and duplicates collapsed. When
// nothing usable remains, fallback is returned.
func ParseContentTypes(list string, fallback ...ContentType) []ContentType {
	var types []ContentType
	seen := make(map[ContentType]bool)
	for _, part := range strings.Split(list, ",") {
		ct := ContentType(strings.ToLower(strings.TrimSpace(part)))
		if ct == "" || seen[ct] {
			continue
		}
		seen[ct] = true
		types = append(types, ct)
	}
	if len(types) == 0 {
		return fallback
	}
	return types
}

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// Content represents a post or page in the CMS. Posts and pages share the
// same table, differentiated by the Type field.
type Content struct {
	ID          uuid.UUID     `json:"id"`
	Type        ContentType   `json:"type"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Body        string        `json:"body"`
	Status      ContentStatus `json:"status"`
	AuthorID    uuid.UUID     `json:"author_id"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublished returns true if the content item is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}
