package primary_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primarycat/internal/models"
	"primarycat/internal/primary"
)

// seedNewsAndSports creates A and B with primary category news and C with
// primary category sports.
func seedNewsAndSports(t *testing.T, f *fixture) (a, b, c models.Content) {
	t.Helper()
	older := time.Now().Add(-2 * time.Hour)
	old := time.Now().Add(-time.Hour)
	a = f.host.AddContent(models.Content{Type: models.ContentTypePost, Title: "Alpha", Slug: "alpha", Status: models.ContentStatusPublished, PublishedAt: &older})
	b = f.host.AddContent(models.Content{Type: models.ContentTypePost, Title: "Beta", Slug: "beta", Status: models.ContentStatusPublished, PublishedAt: &old})
	c = f.host.AddContent(models.Content{Type: models.ContentTypePost, Title: "Gamma", Slug: "gamma", Status: models.ContentStatusPublished})

	for _, assign := range []struct {
		item models.Content
		cat  models.Category
	}{{a, f.news}, {b, f.news}, {c, f.sports}} {
		res := f.svc.Save(f.ctx, f.auth(), f.submission(assign.item.ID, assign.cat.ID.String()))
		require.Equal(t, primary.Saved, res.Outcome)
	}
	return a, b, c
}

func TestFindByPrimaryCategoryEndToEnd(t *testing.T) {
	f := newFixture(t)
	a, b, _ := seedNewsAndSports(t, f)

	items, err := f.svc.FindByPrimaryCategory(f.ctx, "news")
	require.NoError(t, err)

	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	assert.ElementsMatch(t, []string{a.Title, b.Title}, titles)

	out, err := f.svc.RenderListing(f.ctx, "news", models.ContentTypePost)
	require.NoError(t, err)

	doc := parseHTML(t, string(out))
	links := doc.Find("ul.primary-category > li > a")
	require.Equal(t, 2, links.Length())

	got := map[string]string{}
	links.Each(func(_ int, s *goquery.Selection) {
		got[s.Text()] = s.AttrOr("href", "")
	})
	assert.Equal(t, map[string]string{"Alpha": "/alpha", "Beta": "/beta"}, got)
}

func TestFindByPrimaryCategoryIgnoresMembershipOnly(t *testing.T) {
	f := newFixture(t)
	member := f.host.AddContent(models.Content{Type: models.ContentTypePost, Title: "Member", Slug: "member", Status: models.ContentStatusPublished})
	f.host.InsertTermRow(member.ID, models.TaxonomyCategory, f.news.ID)

	items, err := f.svc.FindByPrimaryCategory(f.ctx, "news")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFindByPrimaryCategoryContentTypes(t *testing.T) {
	f := newFixture(t, primary.WithContentTypes(models.ContentTypePost, models.ContentTypePage))
	page := f.host.AddContent(models.Content{Type: models.ContentTypePage, Title: "Desk", Slug: "desk", Status: models.ContentStatusPublished})
	require.Equal(t, primary.Saved, f.svc.Save(f.ctx, f.auth(), f.submission(page.ID, "news")).Outcome)
	require.Equal(t, primary.Saved, f.save(t, "news").Outcome)

	postsOnly, err := f.svc.FindByPrimaryCategory(f.ctx, "news")
	require.NoError(t, err)
	require.Len(t, postsOnly, 1)
	assert.Equal(t, "Hello", postsOnly[0].Title)

	both, err := f.svc.FindByPrimaryCategory(f.ctx, "news", models.ContentTypePost, models.ContentTypePage)
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestFindByPrimaryCategoryEmptySlug(t *testing.T) {
	f := newFixture(t)

	items, err := f.svc.FindByPrimaryCategory(f.ctx, " ")
	assert.ErrorIs(t, err, primary.ErrMissingCategory)
	assert.Nil(t, items)
	assert.Equal(t, 0, f.host.Calls("FindBySlug"), "no query for an empty slug")
}

func TestRenderListingEmptySlug(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.RenderListing(f.ctx, "", models.ContentTypePost)
	assert.ErrorIs(t, err, primary.ErrMissingCategory)
	assert.Empty(t, out)
}

func TestEmptyResultSet(t *testing.T) {
	f := newFixture(t)
	seedNewsAndSports(t, f)

	items, err := f.svc.FindByPrimaryCategory(f.ctx, "unused-slug")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	out, err := f.svc.RenderListing(f.ctx, "unused-slug")
	require.NoError(t, err)
	assert.Equal(t, `<ul class="primary-category"></ul>`, string(out))

	// A real category nobody uses renders the same empty container.
	out, err = f.svc.RenderListing(f.ctx, "world")
	require.NoError(t, err)
	assert.Equal(t, `<ul class="primary-category"></ul>`, string(out))
}

func TestRenderListingQueryFailureRendersEmptyList(t *testing.T) {
	f := newFixture(t)
	seedNewsAndSports(t, f)
	f.host.FailNext("ListByTerm", errors.New("db down"))

	out, err := f.svc.RenderListing(f.ctx, "news")
	require.NoError(t, err)
	assert.Equal(t, 0, parseHTML(t, string(out)).Find("li").Length())
}

func TestRenderListingEscapesTitles(t *testing.T) {
	f := newFixture(t)
	evil := f.host.AddContent(models.Content{
		Type: models.ContentTypePost, Title: `<script>alert(1)</script>`, Slug: "evil",
		Status: models.ContentStatusPublished,
	})
	require.Equal(t, primary.Saved, f.svc.Save(f.ctx, f.auth(), f.submission(evil.ID, "news")).Outcome)

	out, err := f.svc.RenderListing(f.ctx, "news")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestRenderListingPermalink(t *testing.T) {
	f := newFixture(t, primary.WithPermalink(func(c models.Content) string {
		return "https://example.com/" + string(c.Type) + "/" + c.Slug
	}))
	seedNewsAndSports(t, f)

	out, err := f.svc.RenderListing(f.ctx, "sports")
	require.NoError(t, err)
	href, _ := parseHTML(t, string(out)).Find("a").Attr("href")
	assert.Equal(t, "https://example.com/post/gamma", href)
}

func TestShortcode(t *testing.T) {
	f := newFixture(t)
	seedNewsAndSports(t, f)

	tests := []struct {
		name  string
		attrs map[string]string
		items int
		empty bool
	}{
		{name: "category only", attrs: map[string]string{"category": "news"}, items: 2},
		{name: "explicit post type", attrs: map[string]string{"category": "news", "post_type": "post"}, items: 2},
		{name: "pages only", attrs: map[string]string{"category": "news", "post_type": "page"}, items: 0},
		{name: "missing category", attrs: map[string]string{"post_type": "post"}, empty: true},
		{name: "blank category", attrs: map[string]string{"category": " "}, empty: true},
		{name: "nil attrs", attrs: nil, empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := f.svc.Shortcode(f.ctx, tt.attrs)
			if tt.empty {
				assert.Empty(t, out)
				return
			}
			assert.True(t, strings.HasPrefix(string(out), "<ul"))
			assert.Equal(t, tt.items, parseHTML(t, string(out)).Find("li").Length())
		})
	}
}
