package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CandidateRecommendation is a song proposed by the language model before
// it has been verified against the Spotify catalog.
type CandidateRecommendation struct {
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Reason      string   `json:"reason"`
	MoodTags    []string `json:"mood_tags"`
	SearchQuery string   `json:"search_query"`
}

// Song is a candidate that has been resolved against the catalog. Title and
// artist carry the catalog's canonical naming when a match was found; the
// URL fields stay nil when the catalog was unreachable or returned nothing.
type Song struct {
	TrackID    string   `json:"track_id,omitempty"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Reason     string   `json:"reason"`
	MoodTags   []string `json:"mood_tags"`
	Language   string   `json:"language"`
	SpotifyURL *string  `json:"spotify_url"`
	AlbumCover *string  `json:"album_cover"`
}

// SongList stores a recommendation result as a single jsonb column.
type SongList []Song

// Value implements driver.Valuer for gorm.
func (l SongList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for gorm.
func (l *SongList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for SongList: %T", value)
	}
}

// RecommendationHistory is one delivered recommendation set for a user.
// The recommendation pipeline only ever reads these rows (to build avoidance
// sets); writing happens in the API layer after a successful response.
type RecommendationHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Songs     SongList  `gorm:"type:jsonb;not null" json:"songs"`
}
