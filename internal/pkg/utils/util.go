package utils

import (
	"strings"
	"unicode"
)

// CapitalizeAndFormat replaces '_' and '-' with spaces, then capitalizes each word.
func CapitalizeAndFormat(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)

	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}

// UniqueSlice drops repeated items, keeping the first occurrence.
func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]bool)
	var result []T

	for _, item := range slice {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}

// SetOf builds a lookup set from items, ignoring blanks after trimming.
func SetOf(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range UniqueSlice(items) {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = true
		}
	}

	return set
}
