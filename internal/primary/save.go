// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package primary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

// Outcome is what a save did.
type Outcome int

const (
	Skipped Outcome = iota
	Saved
	Cleared
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Cleared:
		return "cleared"
	default:
		return "skipped"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name written by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "skipped":
		*o = Skipped
	case "saved":
		*o = Saved
	case "cleared":
		*o = Cleared
	default:
		return fmt.Errorf("unknown save outcome %q", text)
	}
	return nil
}

// Reason explains why a save was skipped.
type Reason string

const (
	ReasonBadNonce         Reason = "bad_nonce"
	ReasonNotFound         Reason = "not_found"
	ReasonForbidden        Reason = "forbidden"
	ReasonAutosave         Reason = "autosave"
	ReasonUnsupportedType  Reason = "unsupported_type"
	ReasonNoSelection      Reason = "no_selection"
	ReasonUnknownCategory  Reason = "unknown_category"
	ReasonExcludedCategory Reason = "excluded_category"
	ReasonStoreError       Reason = "store_error"
)

// Submission is a validated primary category form post for one item.
type Submission struct {
	ContentID uuid.UUID
	Nonce     string

	// Selection is a category UUID, a category slug, or NoneValue.
	Selection    string
	HasSelection bool
}

// AuthContext carries the request-scoped facts a save is checked against.
type AuthContext struct {
	SessionID string
	Caller    Caller

	// Autosave marks background saves issued by the editor, which never
	// change the primary category.
	Autosave bool
}

// Result reports a save. ContentID always echoes the submission.
type Result struct {
	ContentID uuid.UUID        `json:"content_id"`
	Outcome   Outcome          `json:"outcome"`
	Reason    Reason           `json:"reason,omitempty"`
	Category  *models.Category `json:"category,omitempty"`
}

// Save applies a submission. Checks run in order and the first failure
// skips the save, leaving stored state untouched. Submitting NoneValue
// clears the designation; any other value must resolve to a real category,
// which becomes the only primary category and is added to the item's
// memberships if missing. Memberships are never removed.
func (s *Service) Save(ctx context.Context, auth AuthContext, sub Submission) Result {
	skip := func(reason Reason) Result {
		slog.Debug("primary category save skipped",
			"content_id", sub.ContentID,
			"reason", reason,
		)
		return Result{ContentID: sub.ContentID, Outcome: Skipped, Reason: reason}
	}

	if sub.Nonce == "" || !s.nonces.Verify(sub.Nonce, NonceAction(sub.ContentID), auth.SessionID) {
		return skip(ReasonBadNonce)
	}

	item, err := s.host.Content.FindByID(ctx, sub.ContentID)
	if err != nil {
		slog.Error("primary category save: find content failed", "content_id", sub.ContentID, "error", err)
		return skip(ReasonStoreError)
	}
	if item == nil {
		return skip(ReasonNotFound)
	}

	if auth.Caller == nil || !auth.Caller.CanEdit(ctx, item) {
		return skip(ReasonForbidden)
	}
	if auth.Autosave {
		return skip(ReasonAutosave)
	}
	if !s.acceptsType(item.Type) {
		return skip(ReasonUnsupportedType)
	}

	selection := strings.TrimSpace(sub.Selection)
	if !sub.HasSelection || selection == "" {
		return skip(ReasonNoSelection)
	}

	if selection == NoneValue {
		if err := s.Remove(ctx, item.ID); err != nil {
			slog.Error("primary category clear failed", "content_id", item.ID, "error", err)
			return skip(ReasonStoreError)
		}
		slog.Info("primary category cleared", "content_id", item.ID)
		return Result{ContentID: sub.ContentID, Outcome: Cleared}
	}

	cat, err := s.host.Categories.Resolve(ctx, selection)
	if err != nil {
		slog.Warn("primary category resolve failed", "content_id", item.ID, "ref", selection, "error", err)
		return skip(ReasonUnknownCategory)
	}
	if cat == nil {
		return skip(ReasonUnknownCategory)
	}
	if cat.Slug == s.uncategorized {
		return skip(ReasonExcludedCategory)
	}

	// Membership goes first: if the assignment write then fails, the item is
	// left with an extra membership, never with a primary category it is
	// not a member of.
	if err := s.ensureMember(ctx, item.ID, cat.ID); err != nil {
		slog.Error("primary category membership failed", "content_id", item.ID, "category_id", cat.ID, "error", err)
		return skip(ReasonStoreError)
	}
	if err := s.host.Terms.SetItemTerms(ctx, item.ID, models.TaxonomyPrimaryCategory, []uuid.UUID{cat.ID}, false); err != nil {
		slog.Error("primary category assign failed", "content_id", item.ID, "category_id", cat.ID, "error", err)
		return skip(ReasonStoreError)
	}

	slog.Info("primary category saved", "content_id", item.ID, "category", cat.Slug)
	return Result{ContentID: sub.ContentID, Outcome: Saved, Category: cat}
}

// ensureMember adds the category to the item's memberships if missing.
func (s *Service) ensureMember(ctx context.Context, contentID, categoryID uuid.UUID) error {
	member, err := s.host.Terms.HasItemTerm(ctx, contentID, models.TaxonomyCategory, categoryID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if member {
		return nil
	}
	if err := s.host.Terms.SetItemTerms(ctx, contentID, models.TaxonomyCategory, []uuid.UUID{categoryID}, true); err != nil {
		return fmt.Errorf("add membership: %w", err)
	}
	return nil
}

// Remove clears the item's primary category. It is a no-op when none is
// assigned and never touches category memberships. If several assignments
// are stored (legacy data), only the oldest is removed.
func (s *Service) Remove(ctx context.Context, contentID uuid.UUID) error {
	ids, err := s.host.Terms.ItemTermIDs(ctx, contentID, models.TaxonomyPrimaryCategory)
	if err != nil {
		return fmt.Errorf("remove primary category: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > 1 {
		slog.Warn("multiple primary categories stored, removing the first",
			"content_id", contentID,
			"count", len(ids),
		)
	}

	if err := s.host.Terms.RemoveItemTerms(ctx, contentID, models.TaxonomyPrimaryCategory, ids[:1]); err != nil {
		return fmt.Errorf("remove primary category: %w", err)
	}
	return nil
}
