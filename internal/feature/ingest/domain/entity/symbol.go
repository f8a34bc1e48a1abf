// Package entity defines the domain models for the ingest feature.
package entity

import "strings"

// NormalizeSymbol returns the canonical form of a symbol: trimmed and upper-cased.
// Symbols are compared case-insensitively everywhere, so every lookup and write
// goes through this.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseSymbols splits a comma separated list into normalized symbols, dropping empties.
// Order is preserved and duplicates are kept.
func ParseSymbols(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := NormalizeSymbol(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
