package spotify

import "strings"

// Track is a resolved catalog entry.
type Track struct {
	ID         string
	Title      string
	Artist     string // primary artist
	URL        string // open.spotify.com link
	AlbumCover string // largest album image, empty when none
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type spotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Album   struct {
		Images []spotifyImage `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

func (t spotifyTrack) primaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

func (t spotifyTrack) joinedArtists() string {
	parts := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		parts = append(parts, a.Name)
	}
	return strings.Join(parts, " ")
}

func (t spotifyTrack) coverURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	// Spotify orders images largest first
	return t.Album.Images[0].URL
}

func mapTrack(t spotifyTrack) *Track {
	return &Track{
		ID:         t.ID,
		Title:      t.Name,
		Artist:     t.primaryArtist(),
		URL:        t.ExternalURLs.Spotify,
		AlbumCover: t.coverURL(),
	}
}
