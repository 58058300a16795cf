// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth maps user roles to capabilities and decides whether a
// signed-in user may edit a given content item.
package auth

import (
	"context"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

// Capability names a permission checked by handlers and the primary
// category service.
type Capability string

const (
	CapEditPosts        Capability = "edit_posts"
	CapEditOthersPosts  Capability = "edit_others_posts"
	CapManageCategories Capability = "manage_categories"
)

// roleCaps lists what each role may do. Unknown roles get nothing.
var roleCaps = map[models.Role][]Capability{
	models.RoleAdmin:  {CapEditPosts, CapEditOthersPosts, CapManageCategories},
	models.RoleEditor: {CapEditPosts, CapEditOthersPosts, CapManageCategories},
	models.RoleAuthor: {CapEditPosts},
}

// Can reports whether the role grants the capability.
func Can(role models.Role, c Capability) bool {
	for _, have := range roleCaps[role] {
		if have == c {
			return true
		}
	}
	return false
}

// Caller is the signed-in user behind a request.
type Caller struct {
	UserID uuid.UUID
	Role   models.Role
}

// Can reports whether the caller's role grants the capability.
func (c Caller) Can(cap Capability) bool {
	return Can(c.Role, cap)
}

// CanEdit reports whether the caller may edit the item: anyone with
// edit_others_posts, or its author with edit_posts.
func (c Caller) CanEdit(_ context.Context, item *models.Content) bool {
	if item == nil {
		return false
	}
	if c.Can(CapEditOthersPosts) {
		return true
	}
	return c.Can(CapEditPosts) && item.AuthorID == c.UserID
}
