// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package primary

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

// State tags the outcome of a primary category lookup.
type State int

const (
	NotAssigned State = iota
	Found
	LookupFailed
)

// String returns the state name used in logs and JSON.
func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case LookupFailed:
		return "lookup_failed"
	default:
		return "not_assigned"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_assigned":
		*s = NotAssigned
	case "found":
		*s = Found
	case "lookup_failed":
		*s = LookupFailed
	default:
		return fmt.Errorf("unknown lookup state %q", text)
	}
	return nil
}

// Lookup is the tagged result of reading an item's primary category.
// Category is set only when State is Found; Err only when LookupFailed.
type Lookup struct {
	State    State            `json:"state"`
	Category *models.Category `json:"category,omitempty"`
	Err      error            `json:"-"`
}

// Lookup reads the primary category of a content item. A stored reference
// to a category that no longer resolves reads as NotAssigned. If several
// assignments are stored, the oldest wins.
func (s *Service) Lookup(ctx context.Context, contentID uuid.UUID) Lookup {
	ids, err := s.host.Terms.ItemTermIDs(ctx, contentID, models.TaxonomyPrimaryCategory)
	if err != nil {
		return Lookup{State: LookupFailed, Err: fmt.Errorf("lookup primary category: %w", err)}
	}
	if len(ids) == 0 {
		return Lookup{State: NotAssigned}
	}

	cat, err := s.host.Categories.Resolve(ctx, ids[0].String())
	if err != nil {
		return Lookup{State: LookupFailed, Err: fmt.Errorf("resolve primary category: %w", err)}
	}
	if cat == nil {
		return Lookup{State: NotAssigned}
	}
	return Lookup{State: Found, Category: cat}
}

// PrimaryCategory returns the item's primary category, or false when none is
// assigned or the lookup failed. It never reports an error.
func (s *Service) PrimaryCategory(ctx context.Context, contentID uuid.UUID) (*models.Category, bool) {
	l := s.Lookup(ctx, contentID)
	if l.State != Found {
		return nil, false
	}
	return l.Category, true
}
