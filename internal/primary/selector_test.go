package primary_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primarycat/internal/primary"
)

// selectorOptions returns option values and the selected value of the
// rendered selector.
func selectorOptions(t *testing.T, doc *goquery.Document) (values, labels []string, selected []string) {
	t.Helper()
	doc.Find(`select[name="primary-category"] option`).Each(func(_ int, s *goquery.Selection) {
		v := s.AttrOr("value", "")
		values = append(values, v)
		labels = append(labels, strings.TrimSpace(s.Text()))
		if _, ok := s.Attr("selected"); ok {
			selected = append(selected, v)
		}
	})
	return values, labels, selected
}

func TestSelectorExcludesUncategorized(t *testing.T) {
	f := newFixture(t)

	states := map[string]func(){
		"unassigned":   func() {},
		"assigned":     func() { f.save(t, f.sports.ID.String()) },
		"lookup error": func() { f.host.FailNext("ItemTermIDs", errors.New("db down")) },
	}

	for name, prepare := range states {
		t.Run(name, func(t *testing.T) {
			prepare()
			doc := parseHTML(t, string(f.svc.Selector(f.ctx, f.post.ID, testSession)))
			values, labels, _ := selectorOptions(t, doc)

			assert.NotContains(t, values, f.uncategorized.ID.String())
			assert.NotContains(t, labels, "Uncategorized")
			assert.Equal(t, []string{primary.NoneValue, f.news.ID.String(), f.world.ID.String(), f.sports.ID.String()}, values)
		})
	}
}

func TestSelectorPreselection(t *testing.T) {
	f := newFixture(t)

	doc := parseHTML(t, string(f.svc.Selector(f.ctx, f.post.ID, testSession)))
	_, labels, selected := selectorOptions(t, doc)
	assert.Equal(t, []string{primary.NoneValue}, selected)
	assert.Equal(t, []string{"none", "News", "World", "Sports"}, labels)

	f.save(t, f.world.ID.String())
	doc = parseHTML(t, string(f.svc.Selector(f.ctx, f.post.ID, testSession)))
	_, _, selected = selectorOptions(t, doc)
	assert.Equal(t, []string{f.world.ID.String()}, selected)

	f.host.FailNext("ItemTermIDs", errors.New("db down"))
	doc = parseHTML(t, string(f.svc.Selector(f.ctx, f.post.ID, testSession)))
	_, _, selected = selectorOptions(t, doc)
	assert.Equal(t, []string{primary.NoneValue}, selected)
}

func TestSelectorIndentsChildren(t *testing.T) {
	f := newFixture(t)

	data := f.svc.SelectorOptions(f.ctx, f.post.ID)

	require.Len(t, data.Options, 4)
	assert.Equal(t, "World", data.Options[2].Label)
	assert.Equal(t, 1, data.Options[2].Depth)
	assert.Contains(t, string(f.svc.Selector(f.ctx, f.post.ID, testSession)), "\u00a0\u00a0\u00a0World")
}

func TestSelectorDirectoryFailureOffersNone(t *testing.T) {
	f := newFixture(t)
	f.save(t, f.news.ID.String())
	f.host.FailNext("FlatTree", errors.New("db down"))

	data := f.svc.SelectorOptions(f.ctx, f.post.ID)

	require.Len(t, data.Options, 1)
	assert.Equal(t, primary.NoneValue, data.Selected)
	assert.True(t, data.Options[0].Selected)
}

func TestSelectorNonceRoundTrip(t *testing.T) {
	f := newFixture(t)

	doc := parseHTML(t, string(f.svc.Selector(f.ctx, f.post.ID, testSession)))
	token, ok := doc.Find(`input[name="primary-category-nonce"]`).Attr("value")
	require.True(t, ok)
	require.NotEmpty(t, token)

	res := f.svc.Save(f.ctx, f.auth(), primary.Submission{
		ContentID:    f.post.ID,
		Nonce:        token,
		Selection:    f.news.ID.String(),
		HasSelection: true,
	})
	assert.Equal(t, primary.Saved, res.Outcome)
}
