package domain

import (
	"strconv"
	"strings"
	"unicode"
)

const fallbackSlug = "post"

// Slugify derives the base slug for a title: whitespace runs become single
// hyphens, case is preserved and characters that are not URL-safe are dropped.
func Slugify(title string) string {
	words := strings.Fields(title)
	for i, w := range words {
		words[i] = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			switch r {
			case '-', '_', '.', '~':
				return r
			}
			return -1
		}, w)
	}

	// Words made only of dots are dropped: "." and ".." are path dot-segments
	// and never reach the server intact.
	parts := words[:0]
	for _, w := range words {
		if strings.Trim(w, ".") != "" {
			parts = append(parts, w)
		}
	}
	if len(parts) == 0 {
		return fallbackSlug
	}
	return strings.Join(parts, "-")
}

// UniqueSlug returns base if it is not in taken, otherwise the first free
// "base-N" for N = 1, 2, ...
func UniqueSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
