package identity

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/internal/domain/repositories"
)

// matchThreshold is the minimum similarity score for a link. Candidates
// scoring below it stay unmatched rather than risking a wrong link.
const matchThreshold = 0.7

// Resolver links transcript display names to stored people using fuzzy
// name similarity.
type Resolver struct {
	people repositories.PersonRepository
	logger *zap.Logger
}

// NewResolver creates an identity resolver over the person store.
func NewResolver(people repositories.PersonRepository, logger *zap.Logger) *Resolver {
	return &Resolver{people: people, logger: logger}
}

// Resolve returns the best-matching person for a display name, with the
// similarity score, or (nil, 0) when nobody clears the threshold. A later
// candidate replaces an earlier one only with a strictly greater score, so
// ties keep the first match.
func (r *Resolver) Resolve(ctx context.Context, name string) (*entities.Person, float64, error) {
	people, err := r.people.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list people for identity resolution: %w", err)
	}

	var best *entities.Person
	bestScore := 0.0
	for _, candidate := range people {
		score := Similarity(name, candidate.Name)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if best == nil || bestScore < matchThreshold {
		return nil, 0, nil
	}

	if r.logger != nil {
		r.logger.Debug("🔗 Resolved participant identity",
			zap.String("display_name", name),
			zap.String("person", best.Name),
			zap.Float64("score", bestScore))
	}
	return best, bestScore, nil
}

// Similarity scores how alike two names are on a 0..1 scale. Comparison
// is case-insensitive and whitespace-trimmed. Exact matches score 1.0,
// full containment 0.8, and anything else the token overlap ratio.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	return tokenOverlap(a, b)
}

// tokenOverlap counts tokens of one name that equal, contain, or are
// contained in some token of the other, over the larger token count.
// The smaller of the two directional counts is used so the score does
// not depend on argument order and a single compound token cannot
// satisfy several tokens of the other name at once.
func tokenOverlap(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}

	matched := countTokenMatches(tokensA, tokensB)
	if reverse := countTokenMatches(tokensB, tokensA); reverse < matched {
		matched = reverse
	}
	return float64(matched) / float64(larger)
}

func countTokenMatches(from, against []string) int {
	matched := 0
	for _, f := range from {
		for _, g := range against {
			if f == g || strings.Contains(g, f) || strings.Contains(f, g) {
				matched++
				break
			}
		}
	}
	return matched
}
