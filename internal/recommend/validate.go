package recommend

import (
	"strings"

	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/models"
)

// ConstraintViolation records one way the model disobeyed the prompt rules.
type ConstraintViolation struct {
	Rule    string
	Details string
}

// ValidateCandidates re-checks the hard prompt rules against the model's
// actual output instead of trusting it. Avoided-artist hits are dropped from
// the returned slice; count and duplicate-artist problems are reported but
// left for post-processing to resolve, since dropping here would only make
// the count worse. Track avoidance is keyed on catalog ids, which candidates
// do not carry yet, so it is enforced after resolution instead.
func ValidateCandidates(candidates []models.CandidateRecommendation, avoidArtists []string) ([]models.CandidateRecommendation, []ConstraintViolation) {
	var violations []ConstraintViolation

	avoidArtistSet := make(map[string]struct{}, len(avoidArtists))
	for _, a := range avoidArtists {
		avoidArtistSet[normalizeArtist(a)] = struct{}{}
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if _, hit := avoidArtistSet[normalizeArtist(c.Artist)]; hit {
			violations = append(violations, ConstraintViolation{
				Rule:    "avoid_artists",
				Details: c.Artist,
			})
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) != expectedCandidateCount {
		violations = append(violations, ConstraintViolation{
			Rule:    "candidate_count",
			Details: "expected 3 recommendations",
		})
	}

	seen := make(map[string]string, len(kept))
	for _, c := range kept {
		key := normalizeArtist(c.Artist)
		if first, dup := seen[key]; dup {
			violations = append(violations, ConstraintViolation{
				Rule:    "distinct_artists",
				Details: first + " repeated as " + c.Artist,
			})
			continue
		}
		seen[key] = c.Artist
	}

	for _, v := range violations {
		logger.Warn("model violated a recommendation constraint", logger.Fields{
			"rule":    v.Rule,
			"details": v.Details,
		})
	}

	return kept, violations
}

// normalizeArtist folds case and whitespace so "The XX" and "the xx" compare
// equal. Used for dedup and avoidance matching, never for display.
func normalizeArtist(artist string) string {
	return strings.Join(strings.Fields(strings.ToLower(artist)), " ")
}
