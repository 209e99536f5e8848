package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vibematch/vibematch-api/internal/models"
)

func historyRow(songs ...models.Song) models.RecommendationHistory {
	return models.RecommendationHistory{UserID: "42", Songs: songs}
}

func TestBuildAvoidanceSets(t *testing.T) {
	rows := []models.RecommendationHistory{
		historyRow(
			models.Song{TrackID: "t1", Artist: "Beach House"},
			models.Song{TrackID: "t2", Artist: "Men I Trust"},
		),
		historyRow(
			models.Song{TrackID: "t1", Artist: "beach house"}, // repeat, different case
			models.Song{TrackID: "t3", Artist: "Alvvays"},
		),
	}

	sets := BuildAvoidanceSets(rows)

	assert.Equal(t, []string{"t1", "t2", "t3"}, sets.Tracks)
	assert.Equal(t, []string{"Beach House", "Men I Trust", "Alvvays"}, sets.Artists)
}

func TestBuildAvoidanceSetsSkipsEmptyFields(t *testing.T) {
	rows := []models.RecommendationHistory{
		historyRow(models.Song{Artist: "Only Artist"}),
		historyRow(models.Song{TrackID: "only-track"}),
	}

	sets := BuildAvoidanceSets(rows)

	assert.Equal(t, []string{"only-track"}, sets.Tracks)
	assert.Equal(t, []string{"Only Artist"}, sets.Artists)
}

func TestAvoidanceSetsForGuestAndNilDB(t *testing.T) {
	store := NewHistoryStore(nil)

	assert.Empty(t, store.AvoidanceSetsFor(context.Background(), ""))
	assert.Empty(t, store.AvoidanceSetsFor(context.Background(), "42"))
}

func TestHistorySaveNoopWithoutDB(t *testing.T) {
	store := NewHistoryStore(nil)

	err := store.Save(context.Background(), "42", []models.Song{{Title: "A"}})

	assert.NoError(t, err)
}
