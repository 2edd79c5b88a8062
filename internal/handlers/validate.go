package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 200
	maxContentLen = 100_000
)

// validatePost checks post form inputs and returns the first error found.
func validatePost(title, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 200 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}
