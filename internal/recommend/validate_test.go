package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibematch/vibematch-api/internal/models"
)

func candidate(title, artist string) models.CandidateRecommendation {
	return models.CandidateRecommendation{Title: title, Artist: artist}
}

func TestValidateCandidatesCleanSet(t *testing.T) {
	candidates := []models.CandidateRecommendation{
		candidate("A", "Artist 1"),
		candidate("B", "Artist 2"),
		candidate("C", "Artist 3"),
	}

	kept, violations := ValidateCandidates(candidates, nil)

	assert.Len(t, kept, 3)
	assert.Empty(t, violations)
}

func TestValidateCandidatesDropsAvoidedArtist(t *testing.T) {
	candidates := []models.CandidateRecommendation{
		candidate("A", "Khruangbin"),
		candidate("B", "Artist 2"),
		candidate("C", "Artist 3"),
	}

	kept, violations := ValidateCandidates(candidates, []string{"KHRUANGBIN"})

	require.Len(t, kept, 2)
	for _, c := range kept {
		assert.NotEqual(t, "Khruangbin", c.Artist)
	}
	// The drop itself plus the resulting short count.
	require.Len(t, violations, 2)
	assert.Equal(t, "avoid_artists", violations[0].Rule)
	assert.Equal(t, "candidate_count", violations[1].Rule)
}

func TestValidateCandidatesReportsDuplicateArtists(t *testing.T) {
	candidates := []models.CandidateRecommendation{
		candidate("A", "Bon Iver"),
		candidate("B", "bon iver"),
		candidate("C", "Artist 3"),
	}

	kept, violations := ValidateCandidates(candidates, nil)

	// Duplicates are reported, not dropped; dedup happens after resolution.
	assert.Len(t, kept, 3)
	require.Len(t, violations, 1)
	assert.Equal(t, "distinct_artists", violations[0].Rule)
}

func TestValidateCandidatesWrongCount(t *testing.T) {
	kept, violations := ValidateCandidates([]models.CandidateRecommendation{
		candidate("A", "Artist 1"),
		candidate("B", "Artist 2"),
	}, nil)

	assert.Len(t, kept, 2)
	require.Len(t, violations, 1)
	assert.Equal(t, "candidate_count", violations[0].Rule)
}
