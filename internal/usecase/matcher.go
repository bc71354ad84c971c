package usecase

import (
	"sort"
	"strings"

	"github.com/yourusername/caderneta-bot/internal/domain/constants"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// MatchCandidate is an ephemeral match result: never persisted.
type MatchCandidate struct {
	Product    entity.Product
	Score      float64
	Confidence int // derived percentage, for display
}

// MatchProduct resolves a free-text reference against the catalog.
// Priority order, first hit wins:
//  1. exact normalized name equality
//  2. prefix containment in either direction
//  3. token-overlap score above the threshold (highest score wins)
//  4. any query token longer than 2 chars appearing inside a name
//
// nil means "no match" and is an expected outcome, not an error.
func MatchProduct(catalog []entity.Product, query string) *entity.Product {
	q := normalizeName(query)
	if q == "" || len(catalog) == 0 {
		return nil
	}

	for i := range catalog {
		if normalizeName(catalog[i].Name) == q {
			return &catalog[i]
		}
	}

	for i := range catalog {
		name := normalizeName(catalog[i].Name)
		if name == "" {
			continue
		}
		if strings.HasPrefix(name, q) || strings.HasPrefix(q, name) {
			return &catalog[i]
		}
	}

	var best *entity.Product
	bestScore := 0.0
	for i := range catalog {
		score := matchScore(normalizeName(catalog[i].Name), q)
		// strict > keeps catalog order as the tie-break
		if score >= constants.TokenOverlapThreshold && score > bestScore {
			best = &catalog[i]
			bestScore = score
		}
	}
	if best != nil {
		return best
	}

	for _, tok := range strings.Fields(q) {
		if len(tok) <= 2 {
			continue
		}
		for i := range catalog {
			if strings.Contains(normalizeName(catalog[i].Name), tok) {
				return &catalog[i]
			}
		}
	}

	return nil
}

// SuggestProducts ranks alternatives when MatchProduct came up empty.
// Returns at most MaxSuggestions candidates scoring above MinSuggestionScore,
// best first; equal scores keep catalog order.
func SuggestProducts(catalog []entity.Product, query string) []MatchCandidate {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var out []MatchCandidate
	for _, p := range catalog {
		score := matchScore(normalizeName(p.Name), q)
		if score <= constants.MinSuggestionScore {
			continue
		}
		out = append(out, MatchCandidate{
			Product:    p,
			Score:      score,
			Confidence: int(score * 100),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > constants.MaxSuggestions {
		out = out[:constants.MaxSuggestions]
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchScore is the token-overlap heuristic between two normalized strings.
// Deliberately crude: token hits plus a containment bonus, capped at 1. It is
// not an edit-distance metric and has no length normalization beyond the
// token-count divisor; suggestion ranking depends on this exact behavior.
func matchScore(a, b string) float64 {
	tokensA := scoreTokens(a)
	tokensB := scoreTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	acc := 0.0
	for _, qt := range tokensB {
		exact := false
		partial := false
		for _, ct := range tokensA {
			if qt == ct {
				exact = true
				break
			}
			if strings.Contains(ct, qt) || strings.Contains(qt, ct) {
				partial = true
			}
		}
		switch {
		case exact:
			acc += 1.0
		case partial:
			acc += 0.7
		}
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		acc += 0.5
	}

	denom := len(tokensA)
	if len(tokensB) > denom {
		denom = len(tokensB)
	}
	score := acc / float64(denom)
	if score > 1 {
		score = 1
	}
	return score
}

func scoreTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if len(tok) > 1 {
			out = append(out, tok)
		}
	}
	return out
}
