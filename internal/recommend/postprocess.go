package recommend

import (
	"fmt"

	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/models"
)

const maxSongsReturned = 3

// Outcome is the final deliverable of a pipeline run: the songs in their
// original recommendation order and an optional partial-success warning.
type Outcome struct {
	Songs   []models.Song
	Warning string
}

// Finalize turns resolved songs into the response payload. Resolution has
// already dropped unresolvable candidates, so this stage enforces the
// response contract: at least one song, no repeated artists, at most three,
// generation order preserved.
func Finalize(songs []models.Song, requested int) (*Outcome, error) {
	if len(songs) == 0 {
		return nil, &NoMatchesError{Failed: requested}
	}

	deduped := dedupeByArtist(songs)

	// Partial means fewer than the contract's 3, regardless of how many
	// candidates the model chose to produce.
	var warning string
	if len(deduped) < maxSongsReturned {
		if dropped := requested - len(deduped); dropped > 0 {
			warning = fmt.Sprintf("Returning %d of %d recommendations; %d could not be included.", len(deduped), requested, dropped)
		} else {
			warning = fmt.Sprintf("Returning %d of %d recommendations.", len(deduped), maxSongsReturned)
		}
		logger.Warn("partial recommendation result", logger.Fields{
			"requested": requested,
			"returned":  len(deduped),
		})
	}

	if len(deduped) > maxSongsReturned {
		deduped = deduped[:maxSongsReturned]
	}

	return &Outcome{Songs: deduped, Warning: warning}, nil
}

// dedupeByArtist keeps the first song per normalized artist, preserving
// order for the rest.
func dedupeByArtist(songs []models.Song) []models.Song {
	seen := make(map[string]struct{}, len(songs))
	out := make([]models.Song, 0, len(songs))
	for _, s := range songs {
		key := normalizeArtist(s.Artist)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
