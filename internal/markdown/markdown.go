// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts content bodies from Markdown into HTML using
// goldmark. Markup produced by content tags, such as primary category
// listings, is spliced in after conversion so Markdown never rewrites it.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // authors may write raw HTML
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// InCode parses source and returns a predicate reporting whether the byte
// range [start, end) touches a code block or code span.
func InCode(source string) func(start, end int) bool {
	var ranges [][2]int
	doc := md.Parser().Parse(text.NewReader([]byte(source)))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			if lines := n.Lines(); lines.Len() > 0 {
				ranges = append(ranges, [2]int{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindCodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					ranges = append(ranges, [2]int{t.Segment.Start, t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return func(start, end int) bool {
		for _, r := range ranges {
			if start < r[1] && end > r[0] {
				return true
			}
		}
		return false
	}
}

// ToHTMLWithBlocks converts source like ToHTML, then replaces each token key
// of blocks with its raw HTML. Tokens must be plain alphanumerics so they
// pass through conversion untouched. A token that ends up inside a
// paragraph splits it, since block markup cannot nest in <p>.
func ToHTMLWithBlocks(source string, blocks map[string]string) (string, error) {
	out, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	for token, block := range blocks {
		out = splice(out, token, block)
	}
	return out, nil
}

func splice(out, token, block string) string {
	from := 0
	for {
		i := strings.Index(out[from:], token)
		if i < 0 {
			return out
		}
		i += from
		before, after := out[:i], out[i+len(token):]

		if strings.LastIndex(before, "<p>") > strings.LastIndex(before, "</p>") {
			switch {
			case strings.HasSuffix(before, "<p>") && strings.HasPrefix(after, "</p>"):
				before, after = strings.TrimSuffix(before, "<p>"), strings.TrimPrefix(after, "</p>")
			case strings.HasSuffix(before, "<p>"):
				before = strings.TrimSuffix(before, "<p>")
				after = "\n<p>" + after
			case strings.HasPrefix(after, "</p>"):
				before += "</p>\n"
				after = strings.TrimPrefix(after, "</p>")
			default:
				before += "</p>\n"
				after = "\n<p>" + after
			}
		}
		from = len(before) + len(block)
		out = before + block + after
	}
}
