// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"

	"primarycat/internal/primary"
)

// Host returns the PostgreSQL-backed storage bundle for the primary
// category service.
func Host(db *sql.DB) primary.Host {
	return primary.Host{
		Terms:      NewTermStore(db),
		Categories: NewCategoryStore(db),
		Content:    NewContentStore(db),
	}
}

// Compile-time checks that the stores satisfy the service's interfaces.
var (
	_ primary.TermStore         = (*TermStore)(nil)
	_ primary.CategoryDirectory = (*CategoryStore)(nil)
	_ primary.ContentQuery      = (*ContentStore)(nil)
)
