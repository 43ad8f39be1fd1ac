package models

import "strings"

// NormalizeRef converts a journal reference to its canonical form: numeric
// strings lose leading zeros, everything else is trimmed and upper-cased.
// The same function is used everywhere references are compared, so it must
// be idempotent.
func NormalizeRef(ref string) string {
	s := strings.TrimSpace(ref)
	if s == "" {
		return ""
	}
	if isDigits(s) {
		trimmed := strings.TrimLeft(s, "0")
		if trimmed == "" {
			return "0"
		}
		return trimmed
	}
	return strings.ToUpper(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
