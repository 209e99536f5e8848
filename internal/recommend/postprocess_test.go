package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibematch/vibematch-api/internal/models"
)

func song(title, artist string) models.Song {
	return models.Song{Title: title, Artist: artist, Language: songLanguage}
}

func TestFinalizeFullSet(t *testing.T) {
	songs := []models.Song{song("A", "Artist 1"), song("B", "Artist 2"), song("C", "Artist 3")}

	outcome, err := Finalize(songs, 3)

	require.NoError(t, err)
	require.Len(t, outcome.Songs, 3)
	assert.Empty(t, outcome.Warning)
	// Generation order survives.
	assert.Equal(t, "A", outcome.Songs[0].Title)
	assert.Equal(t, "C", outcome.Songs[2].Title)
}

func TestFinalizeZeroSongs(t *testing.T) {
	_, err := Finalize(nil, 3)

	var noMatches *NoMatchesError
	require.ErrorAs(t, err, &noMatches)
	assert.Equal(t, 3, noMatches.Failed)
}

func TestFinalizeDedupesByArtistKeepingFirst(t *testing.T) {
	songs := []models.Song{
		song("First", "Bon Iver"),
		song("Second", "bon  iver"),
		song("Third", "Sufjan Stevens"),
	}

	outcome, err := Finalize(songs, 3)

	require.NoError(t, err)
	require.Len(t, outcome.Songs, 2)
	assert.Equal(t, "First", outcome.Songs[0].Title)
	assert.Equal(t, "Third", outcome.Songs[1].Title)
	assert.Contains(t, outcome.Warning, "2 of 3")
}

func TestFinalizePartialWarning(t *testing.T) {
	outcome, err := Finalize([]models.Song{song("Only", "Someone")}, 3)

	require.NoError(t, err)
	require.Len(t, outcome.Songs, 1)
	assert.NotEmpty(t, outcome.Warning)
}

func TestFinalizeShortCandidateSetStillWarns(t *testing.T) {
	// The model produced only 2 candidates and both resolved. Nothing was
	// dropped, but the response is still short of 3 and must say so.
	songs := []models.Song{song("A", "Artist 1"), song("B", "Artist 2")}

	outcome, err := Finalize(songs, 2)

	require.NoError(t, err)
	require.Len(t, outcome.Songs, 2)
	assert.Contains(t, outcome.Warning, "2 of 3")
}

func TestFinalizeTruncatesToThree(t *testing.T) {
	songs := []models.Song{
		song("A", "1"), song("B", "2"), song("C", "3"), song("D", "4"),
	}

	outcome, err := Finalize(songs, 4)

	require.NoError(t, err)
	require.Len(t, outcome.Songs, 3)
	assert.Equal(t, "A", outcome.Songs[0].Title)
	assert.Equal(t, "C", outcome.Songs[2].Title)
	// A full 3-song response is not partial, whatever the model over-produced.
	assert.Empty(t, outcome.Warning)
}
