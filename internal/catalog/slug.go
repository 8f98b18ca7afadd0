package catalog

import "strings"

// Slug derives the canonical category string the storefront filters on:
// lower-cased, with runs of whitespace collapsed into single hyphens.
func Slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}
