package handlers

import (
	"strings"
	"unicode/utf8"

	"primarycat/internal/slug"
)

// Validation limits for form fields.
const (
	maxCategoryNameLen = 200
	maxSlugLen         = 300
	maxDescriptionLen  = 1_000
	maxEmailLen        = 254
	maxPasswordLen     = 72 // bcrypt ignores anything longer
)

// validateCategory checks category form inputs and returns the first error found.
func validateCategory(name, catSlug, description string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "Name is too long (max 200 characters)."
	}
	if !slug.Valid(catSlug) {
		return "Slug must contain letters or digits."
	}
	if utf8.RuneCountInString(catSlug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	return ""
}

// validateLogin checks the sign-in form before any lookup is made.
func validateLogin(email, password string) string {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "Email and password are required."
	}
	if len(email) > maxEmailLen || !strings.Contains(email, "@") {
		return "Invalid email or password."
	}
	if len(password) > maxPasswordLen {
		return "Invalid email or password."
	}
	return ""
}
