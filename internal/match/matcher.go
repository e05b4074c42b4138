// Package match implements approximate matching of user-typed names against
// the course catalog. Matching is tiered: exact, substring in either
// direction, then keyword overlap. Scores are deterministic for a given
// normalized query and catalog snapshot; ties keep the first candidate seen
// in catalog order.
package match

import (
	"strings"

	"github.com/unichat-bot/unichat-actions-go/internal/textnorm"
)

// Tier scores. A candidate takes the first tier that applies.
const (
	ScoreExact        = 100 // normalized query equals normalized name
	ScoreQuerySub     = 80  // query is a substring of the name
	ScoreCandidateSub = 70  // name is a substring of the query
	ScoreAllTokens    = 60  // every query token appears in the name (+5 each)
	ScoreSomeTokens   = 30  // some query tokens appear in the name (+5 each)
	ScoreTokenBonus   = 5

	// MinScore is the acceptance floor. Below it a query resolves to nothing
	// rather than to a wrong course.
	MinScore = 30

	// minTokenRunes filters out short connectives ("de", "e", "da") from the
	// keyword-overlap tiers.
	minTokenRunes = 2
)

// Candidate is one catalog entry: backend identifier plus display name.
type Candidate struct {
	ID   string
	Name string
}

// Result is the winning candidate and its tier score.
type Result struct {
	Candidate Candidate
	Score     int
}

// Match scores query against every candidate and returns the best result,
// or nil when no candidate reaches MinScore. Never returns an error: an
// unmatchable query is a normal outcome, not a failure.
func Match(query string, catalog []Candidate) *Result {
	q := textnorm.Normalize(query)
	if q == "" {
		return nil
	}
	tokens := textnorm.Tokens(query, minTokenRunes)

	var best *Result
	for _, c := range catalog {
		score := scoreCandidate(q, tokens, textnorm.Normalize(c.Name))
		if score < MinScore {
			continue
		}
		// Strict > keeps the first candidate on ties (catalog order).
		if best == nil || score > best.Score {
			best = &Result{Candidate: c, Score: score}
		}
	}
	return best
}

// scoreCandidate applies the tiers in order and returns the first that fires.
func scoreCandidate(query string, tokens []string, name string) int {
	if name == "" {
		return 0
	}
	if query == name {
		return ScoreExact
	}
	if strings.Contains(name, query) {
		return ScoreQuerySub
	}
	if strings.Contains(query, name) {
		return ScoreCandidateSub
	}

	if len(tokens) == 0 {
		return 0
	}
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			matched++
		}
	}
	switch {
	case matched == len(tokens):
		return ScoreAllTokens + ScoreTokenBonus*matched
	case matched > 0:
		return ScoreSomeTokens + ScoreTokenBonus*matched
	default:
		return 0
	}
}
