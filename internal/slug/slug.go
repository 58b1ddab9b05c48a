// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL path segments from post tags.
package slug

import (
	"regexp"
	"strings"
)

var (
	// dropped matches anything that isn't a letter, digit, or separator.
	dropped = regexp.MustCompile(`[^\p{L}\p{N}\s_./-]`)
	// separators collapses runs of whitespace, underscores, dots, slashes
	// and hyphens.
	separators = regexp.MustCompile(`[\s_./-]+`)
)

// Tag returns the URL segment for a tag. Letters are lowercased and kept
// even outside ASCII, separators become single hyphens and any other
// punctuation is removed.
// Example: "Machine Learning" → "machine-learning"
func Tag(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = dropped.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
