// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package shortcode finds and expands bracketed tags embedded in content
// bodies, such as [primary-category category="news" post_type="post,page"].
// A doubled bracket ([[tag]]) escapes a tag and is rendered as [tag].
package shortcode

import (
	"regexp"
	"strings"
)

var (
	// tagPattern matches an opening tag: a name followed by optional attributes.
	tagPattern = regexp.MustCompile(`\[([A-Za-z][\w-]*)(\s[^\[\]]*)?\]`)

	// attrPattern matches name="v", name='v' and name=v attributes.
	attrPattern = regexp.MustCompile(`([\w-]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

// Tag is one occurrence of a shortcode in a body.
type Tag struct {
	Name  string
	Attrs map[string]string

	// Start and End are byte offsets of the tag in the body.
	Start, End int
}

// Parse returns every unescaped tag in body, in order of appearance.
func Parse(body string) []Tag {
	var tags []Tag
	for _, m := range tagPattern.FindAllStringSubmatchIndex(body, -1) {
		if escaped(body, m[0], m[1]) {
			continue
		}
		attrs := ""
		if m[4] >= 0 {
			attrs = body[m[4]:m[5]]
		}
		tags = append(tags, Tag{
			Name:  strings.ToLower(body[m[2]:m[3]]),
			Attrs: ParseAttrs(attrs),
			Start: m[0],
			End:   m[1],
		})
	}
	return tags
}

// ParseAttrs parses an attribute string. Names are lower-cased; when a name
// repeats the last value wins.
func ParseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		value := m[2]
		switch {
		case m[3] != "":
			value = m[3]
		case m[4] != "":
			value = m[4]
		}
		attrs[strings.ToLower(m[1])] = value
	}
	return attrs
}

// Expand replaces every tag called name with the output of fn. Other tags
// are left alone; escaped tags lose one pair of brackets.
func Expand(body, name string, fn func(attrs map[string]string) string) string {
	return ExpandOutside(body, name, nil, fn)
}

// ExpandOutside works like Expand but leaves verbatim any tag for which skip
// reports true, escaped or not. skip receives the byte range of the tag
// including escape brackets. A nil skip expands everything.
func ExpandOutside(body, name string, skip func(start, end int) bool, fn func(attrs map[string]string) string) string {
	name = strings.ToLower(name)
	matches := tagPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if !strings.EqualFold(body[m[2]:m[3]], name) {
			continue
		}
		isEscaped := escaped(body, m[0], m[1])
		if skip != nil {
			start, end := m[0], m[1]
			if isEscaped {
				start, end = start-1, end+1
			}
			if skip(start, end) {
				continue
			}
		}
		if isEscaped {
			// Drop the outer brackets of [[tag]].
			b.WriteString(body[last : m[0]-1])
			b.WriteString(body[m[0]:m[1]])
			last = m[1] + 1
			continue
		}
		attrs := ""
		if m[4] >= 0 {
			attrs = body[m[4]:m[5]]
		}
		b.WriteString(body[last:m[0]])
		b.WriteString(fn(ParseAttrs(attrs)))
		last = m[1]
	}
	b.WriteString(body[last:])
	return b.String()
}

// escaped reports whether the tag at [start, end) is wrapped in a second
// pair of brackets.
func escaped(body string, start, end int) bool {
	return start > 0 && body[start-1] == '[' && end < len(body) && body[end] == ']'
}
