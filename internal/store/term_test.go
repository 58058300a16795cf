// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"primarycat/internal/models"
)

func TestTermStoreReplaceAndAppend(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewTermStore(db)
	authorID := testAuthor(t, db)

	a := testCategory(t, db, "Term A", nil)
	b := testCategory(t, db, "Term B", nil)
	post := testContent(t, db, authorID, models.ContentTypePost, models.ContentStatusPublished)

	// Append twice; the duplicate is ignored.
	for i := 0; i < 2; i++ {
		if err := s.SetItemTerms(ctx, post.ID, models.TaxonomyCategory, []uuid.UUID{a.ID}, true); err != nil {
			t.Fatalf("append a: %v", err)
		}
	}
	if err := s.SetItemTerms(ctx, post.ID, models.TaxonomyCategory, []uuid.UUID{b.ID}, true); err != nil {
		t.Fatalf("append b: %v", err)
	}

	ids, err := s.ItemTermIDs(ctx, post.ID, models.TaxonomyCategory)
	if err != nil {
		t.Fatalf("ItemTermIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != a.ID || ids[1] != b.ID {
		t.Fatalf("membership: got %v, want [%s %s]", ids, a.ID, b.ID)
	}

	// Replacing the primary category leaves exactly one row.
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		if err := s.SetItemTerms(ctx, post.ID, models.TaxonomyPrimaryCategory, []uuid.UUID{id}, false); err != nil {
			t.Fatalf("replace primary: %v", err)
		}
	}
	primaryIDs, err := s.ItemTermIDs(ctx, post.ID, models.TaxonomyPrimaryCategory)
	if err != nil {
		t.Fatalf("ItemTermIDs: %v", err)
	}
	if len(primaryIDs) != 1 || primaryIDs[0] != b.ID {
		t.Errorf("primary: got %v, want [%s]", primaryIDs, b.ID)
	}

	// The primary taxonomy does not disturb membership.
	ids, _ = s.ItemTermIDs(ctx, post.ID, models.TaxonomyCategory)
	if len(ids) != 2 {
		t.Errorf("membership changed: got %v", ids)
	}
}

func TestTermStoreUnknownCategoryRollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewTermStore(db)
	authorID := testAuthor(t, db)

	a := testCategory(t, db, "Kept", nil)
	post := testContent(t, db, authorID, models.ContentTypePost, models.ContentStatusPublished)

	if err := s.SetItemTerms(ctx, post.ID, models.TaxonomyPrimaryCategory, []uuid.UUID{a.ID}, false); err != nil {
		t.Fatalf("SetItemTerms: %v", err)
	}

	// A foreign key violation aborts the whole replacement.
	err := s.SetItemTerms(ctx, post.ID, models.TaxonomyPrimaryCategory, []uuid.UUID{uuid.New()}, false)
	if err == nil {
		t.Fatal("expected error for unknown category")
	}

	ids, err := s.ItemTermIDs(ctx, post.ID, models.TaxonomyPrimaryCategory)
	if err != nil {
		t.Fatalf("ItemTermIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != a.ID {
		t.Errorf("expected previous primary kept, got %v", ids)
	}
}

func TestTermStoreHasAndRemove(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewTermStore(db)
	authorID := testAuthor(t, db)

	a := testCategory(t, db, "Has", nil)
	post := testContent(t, db, authorID, models.ContentTypePost, models.ContentStatusPublished)

	has, err := s.HasItemTerm(ctx, post.ID, models.TaxonomyPrimaryCategory, a.ID)
	if err != nil {
		t.Fatalf("HasItemTerm: %v", err)
	}
	if has {
		t.Error("expected no relation yet")
	}

	s.SetItemTerms(ctx, post.ID, models.TaxonomyPrimaryCategory, []uuid.UUID{a.ID}, false)
	has, _ = s.HasItemTerm(ctx, post.ID, models.TaxonomyPrimaryCategory, a.ID)
	if !has {
		t.Error("expected relation after SetItemTerms")
	}

	if err := s.RemoveItemTerms(ctx, post.ID, models.TaxonomyPrimaryCategory, []uuid.UUID{a.ID, uuid.New()}); err != nil {
		t.Fatalf("RemoveItemTerms: %v", err)
	}
	has, _ = s.HasItemTerm(ctx, post.ID, models.TaxonomyPrimaryCategory, a.ID)
	if has {
		t.Error("expected relation removed")
	}

	// Removing nothing is a no-op.
	if err := s.RemoveItemTerms(ctx, post.ID, models.TaxonomyPrimaryCategory, nil); err != nil {
		t.Errorf("RemoveItemTerms(nil): %v", err)
	}
}

func TestTermStoreNamesByContent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewTermStore(db)
	authorID := testAuthor(t, db)

	first := testCategory(t, db, "First Name", nil)
	second := testCategory(t, db, "Second Name", nil)
	with := testContent(t, db, authorID, models.ContentTypePost, models.ContentStatusPublished)
	without := testContent(t, db, authorID, models.ContentTypePost, models.ContentStatusPublished)

	s.SetItemTerms(ctx, with.ID, models.TaxonomyCategory, []uuid.UUID{first.ID}, true)
	s.SetItemTerms(ctx, with.ID, models.TaxonomyCategory, []uuid.UUID{second.ID}, true)
	s.SetItemTerms(ctx, with.ID, models.TaxonomyPrimaryCategory, []uuid.UUID{second.ID}, false)

	names, err := s.NamesByContent(ctx, models.TaxonomyCategory, []uuid.UUID{with.ID, without.ID})
	if err != nil {
		t.Fatalf("NamesByContent: %v", err)
	}
	got := names[with.ID]
	if len(got) != 2 || got[0] != "First Name" || got[1] != "Second Name" {
		t.Errorf("membership names: got %v", got)
	}
	if _, ok := names[without.ID]; ok {
		t.Error("expected no entry for content without relations")
	}

	primaryNames, err := s.NamesByContent(ctx, models.TaxonomyPrimaryCategory, []uuid.UUID{with.ID})
	if err != nil {
		t.Fatalf("NamesByContent (primary): %v", err)
	}
	if p := primaryNames[with.ID]; len(p) != 1 || p[0] != "Second Name" {
		t.Errorf("primary names: got %v", p)
	}

	empty, err := s.NamesByContent(ctx, models.TaxonomyCategory, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("NamesByContent(nil): got %v, %v", empty, err)
	}
}
