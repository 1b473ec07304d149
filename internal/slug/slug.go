// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun matches any run of whitespace, tabs and newlines included.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)

	// asciiFold decomposes accented letters and strips the combining marks,
	// so "é" becomes "e" instead of being dropped outright.
	asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Generate creates a URL-friendly slug from the given string.
// Accented letters fold to their ASCII base; anything else outside
// [a-z0-9] is dropped and whitespace becomes a single hyphen.
// Generate is idempotent: feeding a slug back in returns it unchanged.
// Example: "Café au Lait, 2026!" → "cafe-au-lait-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(asciiFold, result); err == nil {
		result = folded
	}
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
