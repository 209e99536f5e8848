package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPromptHardRules(t *testing.T) {
	b := NewBuilder()

	got := b.BuildSystemPrompt(Input{})

	require.NotEmpty(t, got)
	assert.Contains(t, got, "EXACTLY 3 songs")
	assert.Contains(t, got, "share the same artist")
	assert.Contains(t, got, "search_query")
	assert.NotContains(t, got, "Artists to avoid")
}

func TestBuildSystemPromptIncludesAvoidanceLists(t *testing.T) {
	b := NewBuilder()

	got := b.BuildSystemPrompt(Input{
		AvoidArtists: []string{"Khruangbin", "Men I Trust"},
		AvoidTracks:  []string{"3n3Ppam7vgaVa1iaRUc9Lp"},
	})

	assert.Contains(t, got, "Khruangbin, Men I Trust")
	assert.Contains(t, got, "3n3Ppam7vgaVa1iaRUc9Lp")
	assert.Contains(t, got, "do NOT recommend any of them again")
}

func TestBuildUserPromptCustomTextVerbatim(t *testing.T) {
	b := NewBuilder()

	got := b.BuildUserPrompt(Input{CustomText: "rainy drive at night", Genre: "jazz"})

	assert.Contains(t, got, `"rainy drive at night"`)
	// Custom text wins over genre and must not reference the photo.
	assert.NotContains(t, got, "jazz")
	assert.NotContains(t, strings.ToLower(got), "look at this photo")
}

func TestBuildUserPromptGenreVerbatim(t *testing.T) {
	b := NewBuilder()

	got := b.BuildUserPrompt(Input{Genre: "shoegaze"})

	assert.Contains(t, got, "shoegaze")
	assert.Contains(t, strings.ToLower(got), "photo")
}

func TestBuildUserPromptSurprise(t *testing.T) {
	b := NewBuilder()

	got := b.BuildUserPrompt(Input{})

	assert.Contains(t, strings.ToLower(got), "surprise")
	assert.Contains(t, strings.ToLower(got), "photo")
}

func TestHasImage(t *testing.T) {
	assert.True(t, Input{}.HasImage())
	assert.True(t, Input{Genre: "ambient"}.HasImage())
	assert.False(t, Input{CustomText: "study focus music"}.HasImage())
	assert.True(t, Input{CustomText: "   "}.HasImage())
}
