package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestFlattenCategoryTreeOrderAndDepth(t *testing.T) {
	news := Category{ID: uuid.New(), Name: "News", Slug: "news"}
	world := Category{ID: uuid.New(), Name: "World", Slug: "world", ParentID: &news.ID}
	europe := Category{ID: uuid.New(), Name: "Europe", Slug: "europe", ParentID: &world.ID}
	sports := Category{ID: uuid.New(), Name: "Sports", Slug: "sports"}

	flat := FlattenCategoryTree(BuildCategoryTree([]Category{news, sports, world, europe}))

	want := []struct {
		slug  string
		depth int
	}{
		{"news", 0}, {"world", 1}, {"europe", 2}, {"sports", 0},
	}
	if len(flat) != len(want) {
		t.Fatalf("got %d categories, want %d", len(flat), len(want))
	}
	for i, w := range want {
		if flat[i].Slug != w.slug || flat[i].Depth != w.depth {
			t.Errorf("flat[%d] = %s/%d, want %s/%d", i, flat[i].Slug, flat[i].Depth, w.slug, w.depth)
		}
		if flat[i].Children != nil {
			t.Errorf("flat[%d] should not carry children", i)
		}
	}
}

func TestBuildCategoryTreeDropsOrphans(t *testing.T) {
	missing := uuid.New()
	orphan := Category{ID: uuid.New(), Slug: "orphan", ParentID: &missing}
	root := Category{ID: uuid.New(), Slug: "root"}

	tree := BuildCategoryTree([]Category{orphan, root})
	if len(tree) != 1 || tree[0].Slug != "root" {
		t.Fatalf("expected only root in tree, got %+v", tree)
	}
}
