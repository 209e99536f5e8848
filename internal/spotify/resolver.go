package spotify

import (
	"context"
	"fmt"
	"strings"
)

const searchLimit = 10

// ResolveTrack resolves a recommended (title, artist) pair to a canonical
// catalog entry. Two query tiers, stop at first success:
//
//	Tier 1: exact-field query built from the model's own search hint when
//	        present, else track:"<title>" artist:"<artist>".
//	Tier 2: on zero Tier-1 items, an unquoted free-text "<title> <artist>"
//	        retry; its first item is taken as-is, no scoring.
//
// A (nil, nil) return means the catalog has no match; errors are upstream
// failures and are non-fatal per candidate.
func (s *Session) ResolveTrack(ctx context.Context, title, artist, searchHint string) (*Track, error) {
	query := strings.TrimSpace(searchHint)
	if query == "" {
		query = fmt.Sprintf("track:%q artist:%q", title, artist)
	}

	items, err := s.search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		// Tier 2: fuzzy fallback
		items, err = s.search(ctx, title+" "+artist, searchLimit)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, nil
		}
		return mapTrack(items[0]), nil
	}

	return mapTrack(selectBestMatch(title, artist, items)), nil
}

// selectBestMatch picks from Tier-1 results: an exact normalized title+artist
// match wins, then mutual substring containment on both fields, then the
// first result (the catalog's own relevance ranking).
func selectBestMatch(title, artist string, items []spotifyTrack) spotifyTrack {
	wantTitle := normalize(title)
	wantArtist := normalize(artist)

	for _, item := range items {
		if normalize(item.Name) == wantTitle && normalize(item.joinedArtists()) == wantArtist {
			return item
		}
	}

	for _, item := range items {
		if containsEitherWay(normalize(item.Name), wantTitle) &&
			containsEitherWay(normalize(item.joinedArtists()), wantArtist) {
			return item
		}
	}

	return items[0]
}

// normalize lowercases and collapses whitespace for comparison.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func containsEitherWay(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
