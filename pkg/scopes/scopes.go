// Package scopes provides helpers for working with authorization-type scope
// collections carried inside opaque API tokens.
package scopes

import (
	"slices"
	"sort"
	"strings"
)

// ScopeSeparator is used to separate multiple scopes in a string.
const ScopeSeparator = " "

// Parse converts a space-separated string of scopes into a slice.
// Trims spaces and removes empty entries. Returns nil for empty input.
func Parse(scopesStr string) []string {
	scopesStr = strings.TrimSpace(scopesStr)
	if scopesStr == "" {
		return nil
	}

	parts := strings.Split(scopesStr, ScopeSeparator)
	scopes := make([]string, 0, len(parts))
	for i := range parts {
		if parts[i] = strings.TrimSpace(parts[i]); parts[i] != "" {
			scopes = append(scopes, parts[i])
		}
	}
	return scopes
}

// Join converts a slice of scopes back to a space-separated string.
func Join(scopes []string) string {
	if len(scopes) == 0 {
		return ""
	}
	return strings.Join(scopes, ScopeSeparator)
}

// Has reports whether the collection contains the given scope.
func Has(scopes []string, scope string) bool {
	return slices.Contains(scopes, scope)
}

// HasAll reports whether the collection contains every required scope.
// An empty required slice is trivially satisfied.
func HasAll(scopes, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(scopes) == 0 {
		return false
	}
	for _, req := range required {
		if !Has(scopes, req) {
			return false
		}
	}
	return true
}

// Normalize removes duplicates and sorts the scopes alphabetically.
// Returns nil for empty input.
func Normalize(scopes []string) []string {
	if len(scopes) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(scopes))
	result := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	if len(result) == 0 {
		return nil
	}

	sort.Strings(result)
	return result
}
