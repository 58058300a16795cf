// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package primary

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// SelectorOption is one entry of the authoring selector.
type SelectorOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Depth    int    `json:"depth"`
	Selected bool   `json:"selected"`
}

// SelectorData is everything needed to draw the authoring selector.
type SelectorData struct {
	Name       string           `json:"name"`
	NonceField string           `json:"nonce_field"`
	Nonce      string           `json:"nonce,omitempty"`
	Selected   string           `json:"selected"`
	Options    []SelectorOption `json:"options"`
}

var selectorTmpl = template.Must(template.New("selector").Funcs(template.FuncMap{
	// indent prefixes a label with non-breaking spaces per hierarchy level.
	"indent": func(depth int, label string) string {
		if depth <= 0 {
			return label
		}
		return strings.Repeat("\u00A0\u00A0\u00A0", depth) + label
	},
}).Parse(`<div class="primary-category-box">
<input type="hidden" name="{{.NonceField}}" value="{{.Nonce}}">
<select name="{{.Name}}" id="{{.Name}}">
{{- range .Options}}
<option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{indent .Depth .Label}}</option>
{{- end}}
</select>
</div>`))

// SelectorOptions lists every category except the uncategorized one, led by
// the "none" option. The item's current primary category is selected; when
// none is assigned or the lookup fails, "none" is selected. If categories
// cannot be listed only "none" is offered.
func (s *Service) SelectorOptions(ctx context.Context, contentID uuid.UUID) SelectorData {
	selected := NoneValue
	if cat, ok := s.PrimaryCategory(ctx, contentID); ok {
		selected = cat.ID.String()
	}

	opts := []SelectorOption{{Value: NoneValue, Label: "none"}}

	cats, err := s.host.Categories.FlatTree(ctx)
	if err != nil {
		slog.Error("primary category selector: list categories failed", "content_id", contentID, "error", err)
		cats = nil
	}
	for _, c := range cats {
		if c.Slug == s.uncategorized {
			continue
		}
		opts = append(opts, SelectorOption{
			Value: c.ID.String(),
			Label: c.Name,
			Depth: c.Depth,
		})
	}

	// Fall back to "none" when the current value is not offered.
	found := false
	for i := range opts {
		if opts[i].Value == selected {
			opts[i].Selected = true
			found = true
		}
	}
	if !found {
		selected = NoneValue
		opts[0].Selected = true
	}

	return SelectorData{
		Name:       FieldName,
		NonceField: NonceField,
		Selected:   selected,
		Options:    opts,
	}
}

// Selector renders the authoring selector with a fresh nonce for the session.
func (s *Service) Selector(ctx context.Context, contentID uuid.UUID, sessionID string) template.HTML {
	data := s.SelectorOptions(ctx, contentID)
	data.Nonce = s.Nonce(contentID, sessionID)

	var buf bytes.Buffer
	if err := selectorTmpl.Execute(&buf, data); err != nil {
		slog.Error("primary category selector render failed", "content_id", contentID, "error", err)
		return ""
	}
	return template.HTML(buf.String())
}
