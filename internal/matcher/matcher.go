// Package matcher resolves transaction designation text to a known club
// name. Matching is deterministic; anything ambiguous stays unmatched and is
// routed to the review queue by the caller.
package matcher

import (
	"regexp"
	"sort"

	"clubrecon/internal/logging"
	"clubrecon/internal/textutils"
)

// Strategy resolves designation text against the known club names. It is a
// pure lookup so the matching approach can be swapped without touching the
// pipeline.
type Strategy interface {
	// Match returns the club name (in its original casing) and whether a
	// unique match was found.
	Match(designation string, clubNames []string) (string, bool)
}

// WholeWord matches a club when its normalized name occurs as a whole-word
// substring of the normalized designation text. Among multiple candidates
// the strictly longest normalized name wins; a length tie resolves only if
// exactly one tied candidate equals the designation text, otherwise there is
// no match and the candidates are logged for audit.
type WholeWord struct {
	logger logging.Logger
}

// NewWholeWord creates the default matching strategy.
func NewWholeWord(logger logging.Logger) *WholeWord {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &WholeWord{logger: logger}
}

type candidate struct {
	name       string // original casing
	normalized string
}

// Match implements Strategy.
func (m *WholeWord) Match(designation string, clubNames []string) (string, bool) {
	normalized := textutils.NormalizeForMatching(designation)
	if normalized == "" {
		return "", false
	}

	var candidates []candidate
	for _, name := range clubNames {
		norm := textutils.NormalizeForMatching(name)
		if norm == "" {
			continue
		}
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(norm) + `\b`)
		if pattern.MatchString(normalized) {
			candidates = append(candidates, candidate{name: name, normalized: norm})
		}
	}

	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0].name, true
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].normalized) > len(candidates[j].normalized)
	})
	if len(candidates[0].normalized) > len(candidates[1].normalized) {
		return candidates[0].name, true
	}

	// Length tie. Resolve only on a unique exact equality.
	longest := len(candidates[0].normalized)
	var tied []candidate
	for _, c := range candidates {
		if len(c.normalized) == longest {
			tied = append(tied, c)
		}
	}
	var exact []candidate
	for _, c := range tied {
		if c.normalized == normalized {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return exact[0].name, true
	}

	names := make([]string, len(tied))
	for i, c := range tied {
		names[i] = c.name
	}
	m.logger.Warn("ambiguous club match, routing to review",
		logging.F("designation", designation),
		logging.F(logging.FieldCandidates, names))
	return "", false
}
