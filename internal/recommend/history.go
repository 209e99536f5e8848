package recommend

import (
	"context"

	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/models"
	"gorm.io/gorm"
)

const historyLookback = 10

// AvoidanceSets are track ids and artist names the caller has already seen.
type AvoidanceSets struct {
	Tracks  []string
	Artists []string
}

// HistoryStore reads and writes recommendation history rows.
type HistoryStore struct {
	db *gorm.DB
}

// NewHistoryStore wraps the database handle; a nil handle yields a store
// whose reads return empty sets and whose writes are no-ops.
func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// AvoidanceSetsFor builds avoidance sets from the caller's most recent
// history rows. Failure here is non-fatal: repeats are a quality issue, not a
// correctness one, so errors are logged and empty sets returned.
func (s *HistoryStore) AvoidanceSetsFor(ctx context.Context, callerID string) AvoidanceSets {
	if callerID == "" || s.db == nil {
		return AvoidanceSets{}
	}

	var rows []models.RecommendationHistory
	err := s.db.WithContext(ctx).
		Where("user_id = ?", callerID).
		Order("created_at DESC").
		Limit(historyLookback).
		Find(&rows).Error
	if err != nil {
		logger.Warn("history fetch failed, proceeding without avoidance sets", logger.Fields{
			"caller_id": callerID,
			"error":     err.Error(),
		})
		return AvoidanceSets{}
	}

	return BuildAvoidanceSets(rows)
}

// BuildAvoidanceSets unions track ids and artist names across history rows,
// deduplicated and in first-seen order.
func BuildAvoidanceSets(rows []models.RecommendationHistory) AvoidanceSets {
	seenTracks := make(map[string]struct{})
	seenArtists := make(map[string]struct{})
	var sets AvoidanceSets

	for _, row := range rows {
		for _, song := range row.Songs {
			if song.TrackID != "" {
				if _, ok := seenTracks[song.TrackID]; !ok {
					seenTracks[song.TrackID] = struct{}{}
					sets.Tracks = append(sets.Tracks, song.TrackID)
				}
			}
			if song.Artist != "" {
				key := normalizeArtist(song.Artist)
				if _, ok := seenArtists[key]; !ok {
					seenArtists[key] = struct{}{}
					sets.Artists = append(sets.Artists, song.Artist)
				}
			}
		}
	}

	return sets
}

// Save persists a delivered song list as a new history row. Non-fatal for
// the request: the recommendation has already succeeded by the time this runs.
func (s *HistoryStore) Save(ctx context.Context, callerID string, songs []models.Song) error {
	if callerID == "" || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(&models.RecommendationHistory{
		UserID: callerID,
		Songs:  songs,
	}).Error
}
