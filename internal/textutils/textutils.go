// Package textutils provides the text extraction and normalization helpers
// shared by the ledger extractor, aggregator and club matcher.
package textutils

import (
	"regexp"
	"strings"
)

var (
	trailingRef    = regexp.MustCompile(`[ -]?([a-zA-Z0-9]{3,})$`)
	hasDigit       = regexp.MustCompile(`\d`)
	nonWordOrSpace = regexp.MustCompile(`[^\w\s]+`)
	multiSpace     = regexp.MustCompile(`\s+`)
	contribPrefix  = regexp.MustCompile(`(?i)^(Cash Contributions?|GIFT RECEIVED|DONATION)\s*(?:-|from)?\s*`)
)

// ExtractJournalRef resolves the journal reference for a ledger data row.
// Priority: a trailing alphanumeric token (>=3 chars) in the description; a
// dedicated transaction-number column if it contains a digit; the last
// slash-delimited description token if it contains a digit and is longer
// than 4 characters. Returns "" when no reference can be resolved.
func ExtractJournalRef(description, transactionNum string) string {
	if m := trailingRef.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1])
	}
	if tn := strings.TrimSpace(transactionNum); tn != "" && hasDigit.MatchString(tn) {
		return tn
	}
	parts := strings.Split(description, "/")
	if len(parts) > 1 {
		last := strings.TrimSpace(strings.ReplaceAll(parts[len(parts)-1], " ", ""))
		if hasDigit.MatchString(last) && len(last) > 4 {
			return last
		}
	}
	return ""
}

// NormalizeForMatching lowers case, strips apostrophe and quote variants,
// replaces remaining punctuation with spaces and collapses whitespace. Both
// club names and designation text go through this before comparison.
func NormalizeForMatching(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	for _, q := range []string{"'", "’", "\"", "`"} {
		s = strings.ReplaceAll(s, q, "")
	}
	s = strings.ReplaceAll(s, "+", " ")
	s = nonWordOrSpace.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanContributionDescription derives a donor display name from a
// contribution line: the journal reference token and the gift boilerplate
// prefix are stripped. Returns "" when nothing readable remains.
func CleanContributionDescription(raw, rawRef string) string {
	s := raw
	if rawRef != "" && strings.Contains(s, rawRef) {
		s = strings.ReplaceAll(s, "/"+rawRef, "")
		s = strings.ReplaceAll(s, "-"+rawRef, "")
		s = strings.ReplaceAll(s, rawRef, "")
		s = strings.Trim(s, " /")
	}
	s = contribPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// FeeLabel maps a known fee-line description to its fixed human label, or ""
// when the fee category is not recognized.
func FeeLabel(raw string) string {
	upper := strings.ToUpper(raw)
	switch {
	case strings.Contains(upper, "ADMINISTRATIVE GIFT FEE"):
		return "Foundation Gift Fee"
	case strings.Contains(upper, "CC PLATFORM PROCESSING FEES"):
		return "Credit Card Platform Fee"
	case strings.Contains(upper, "BANK/CREDIT CARD FEES"):
		return "Bank/Credit Card Fee"
	}
	return ""
}
