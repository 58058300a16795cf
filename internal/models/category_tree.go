// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// BuildCategoryTree nests a flat, display-ordered list under its parents.
// Categories whose parent is missing from the list are dropped.
func BuildCategoryTree(flat []Category) []Category {
	return buildTree(flat, nil, 0)
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []Category, parentID *uuid.UUID, depth int) []Category {
	var result []Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FlattenCategoryTree walks a tree depth-first and returns the categories in
// display order with Depth set. Useful for <select> dropdowns.
func FlattenCategoryTree(tree []Category) []Category {
	var result []Category
	flattenTree(tree, &result)
	return result
}

func flattenTree(cats []Category, result *[]Category) {
	for _, c := range cats {
		children := c.Children
		c.Children = nil
		*result = append(*result, c)
		if len(children) > 0 {
			flattenTree(children, result)
		}
	}
}
