package images

import (
	"regexp"
	"strings"
)

// Placeholder is served when a source image reference cannot be resolved to
// a fetchable URL.
const Placeholder = "/images/placeholder.png"

// canonicalPrefix is the direct-fetch form every recognized shared-drive
// reference is rewritten to. It must itself be matched by driveMatchers so
// that Normalize is idempotent.
const canonicalPrefix = "https://lh3.googleusercontent.com/d/"

const canonicalSuffix = "=w1200"

// driveMatchers are tried in order. Each extracts the drive file ID from one
// historical link shape the catalog spreadsheet has carried over the years.
var driveMatchers = []*regexp.Regexp{
	// canonical form produced by Normalize itself
	regexp.MustCompile(`^https://lh3\.googleusercontent\.com/d/([A-Za-z0-9_-]+)`),
	// https://drive.google.com/file/d/<id>/view?usp=sharing
	regexp.MustCompile(`drive\.google\.com/file/d/([A-Za-z0-9_-]+)`),
	// https://drive.google.com/open?id=<id>
	regexp.MustCompile(`drive\.google\.com/open\?id=([A-Za-z0-9_-]+)`),
	// https://drive.google.com/uc?export=view&id=<id>
	regexp.MustCompile(`drive\.google\.com/uc\?[^#]*?id=([A-Za-z0-9_-]+)`),
	// https://drive.google.com/thumbnail?id=<id>&sz=w400
	regexp.MustCompile(`drive\.google\.com/thumbnail\?[^#]*?id=([A-Za-z0-9_-]+)`),
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif"}

// directImageHosts serve raw image bytes without rewriting; refs pointing at
// them pass through untouched.
var directImageHosts = []string{
	"items-images-production.s3.us-west-2.amazonaws.com",
	"square-marketplace.s3.amazonaws.com",
	"squarecdn.com",
	"squareup.com",
}

// Normalize rewrites an externally supplied image reference into a single
// canonical direct-fetch URL, or the placeholder when nothing usable can be
// extracted. It is a pure function: no I/O, never fails, and
// Normalize(Normalize(x)) == Normalize(x) for every input.
func Normalize(raw string) string {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return Placeholder
	}

	for _, m := range driveMatchers {
		if match := m.FindStringSubmatch(ref); match != nil {
			return canonicalPrefix + match[1] + canonicalSuffix
		}
	}

	if isDirectImageURL(ref) {
		return ref
	}

	return Placeholder
}

func isDirectImageURL(ref string) bool {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return false
	}

	lower := strings.ToLower(ref)

	// Strip query/fragment before checking the extension
	path := lower
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	for _, host := range directImageHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}

	return false
}
