package workbook

import (
	"strings"
)

// Matcher scores how well a worksheet name matches a client name. Scores of zero or
// less mean no match.
type Matcher interface {
	MatchScore(query, candidate string) int
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(query, candidate string) int

func (f MatcherFunc) MatchScore(query, candidate string) int { return f(query, candidate) }

// reservedSheetMarkers identify summary and scratch sheets that never hold a client.
var reservedSheetMarkers = []string{"realisatie", "prognose", "blad"}

// IsReservedSheet reports whether name is a summary or scratch sheet.
func IsReservedSheet(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range reservedSheetMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// TokenMatcher counts the query tokens that overlap with a token of the candidate.
// Tokens are split on space, underscore, dash, dot and comma, and tokens of two
// characters or fewer are ignored.
type TokenMatcher struct{}

func (TokenMatcher) MatchScore(query, candidate string) int {
	candidateTokens := tokenize(candidate)
	score := 0
	for _, q := range tokenize(query) {
		for _, c := range candidateTokens {
			if strings.Contains(c, q) || strings.Contains(q, c) {
				score++
				break
			}
		}
	}
	return score
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', ',':
			return true
		}
		return false
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// matchSheet picks the worksheet for clientName. Exact case-insensitive equality wins
// over containment in either direction, which wins over the matcher. The matcher only
// sees non-reserved sheets and the first sheet with the highest positive score wins.
func matchSheet(sheets []string, clientName string, m Matcher) (string, bool) {
	query := strings.TrimSpace(clientName)
	if query == "" {
		return "", false
	}

	for _, name := range sheets {
		if strings.EqualFold(name, query) {
			return name, true
		}
	}

	lowerQuery := strings.ToLower(query)
	for _, name := range sheets {
		lower := strings.ToLower(name)
		if strings.Contains(lower, lowerQuery) || strings.Contains(lowerQuery, lower) {
			return name, true
		}
	}

	if m == nil {
		return "", false
	}
	best, bestScore := "", 0
	for _, name := range sheets {
		if IsReservedSheet(name) {
			continue
		}
		if score := m.MatchScore(query, name); score > bestScore {
			best, bestScore = name, score
		}
	}
	return best, bestScore > 0
}
