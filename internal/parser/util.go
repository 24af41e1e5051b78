package parser

import (
	"regexp"
	"strings"
)

var (
	// serial, DD-MM-YYYY date, lazy remarks, amount, rupee glyph, balance
	transactionPattern = regexp.MustCompile(`(\d+)\s+(\d{2}-\d{2}-\d{4})\s+(.+?)\s+([\d,]+\.\d{2})\s+₹\s+([\d,]+\.\d{2})`)
	// whole-word debit marker
	debitMarker = regexp.MustCompile(`(?i)\bDR\b`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// isDebit reports whether a matched row carries the debit marker.
func isDebit(span string) bool {
	return debitMarker.MatchString(span)
}

// normalizeSpace trims s and collapses internal whitespace runs to one space.
func normalizeSpace(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}
