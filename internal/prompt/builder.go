package prompt

import (
	"fmt"
	"strings"
)

// Builder builds the system and user prompts for the recommendation model.
type Builder struct{}

// NewBuilder creates a new prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Input carries everything the prompts depend on. Precedence: a non-empty
// CustomText wins over Genre; with neither set the request is "surprise me".
type Input struct {
	Genre        string
	CustomText   string
	AvoidArtists []string
	AvoidTracks  []string
}

// HasImage reports whether the model call should include the photo.
// Custom-text requests are answered from the text alone.
func (in Input) HasImage() bool {
	return strings.TrimSpace(in.CustomText) == ""
}

// BuildSystemPrompt returns the rules the model output is held to. The rules
// are re-checked downstream; the prompt is the first line of defense, not the
// only one.
func (b *Builder) BuildSystemPrompt(in Input) string {
	var sb strings.Builder

	sb.WriteString(`You are a music curator with deep knowledge across genres, eras and scenes.
You recommend songs that match the mood and atmosphere of what you are shown or asked.

HARD RULES - every one of these is mandatory:
1. Recommend EXACTLY 3 songs.
2. No two recommendations may share the same artist.
3. Do not fall back on ultra-mainstream "default playlist" staples (e.g. "Blinding Lights",
   "Shape of You", "Bohemian Rhapsody", "Somebody That I Used to Know"). Dig deeper.
4. The 3 picks together must span at least 2 distinct subgenres or eras.
5. Only recommend songs you are confident actually exist, with the correct primary artist.
   Never invent a track.
6. For each song give a reason of 1-2 sentences tying it to the input, 2-4 mood tags,
   and a search_query of the form: track title followed by artist name.`)

	if len(in.AvoidArtists) > 0 || len(in.AvoidTracks) > 0 {
		sb.WriteString("\n7. The user has already received the following; do NOT recommend any of them again:")
		if len(in.AvoidArtists) > 0 {
			sb.WriteString("\n   Artists to avoid: ")
			sb.WriteString(strings.Join(in.AvoidArtists, ", "))
		}
		if len(in.AvoidTracks) > 0 {
			sb.WriteString("\n   Track ids already seen: ")
			sb.WriteString(strings.Join(in.AvoidTracks, ", "))
		}
	}

	sb.WriteString(`

Respond with JSON matching the provided schema: an object with a "recommendations"
array of exactly 3 entries.`)

	return sb.String()
}

// BuildUserPrompt returns the user-turn text for the request mode.
func (b *Builder) BuildUserPrompt(in Input) string {
	if text := strings.TrimSpace(in.CustomText); text != "" {
		return fmt.Sprintf(`The user asked for music with this exact request: %q

Recommend 3 songs that fulfill the request. Do not assume anything about a photo;
work from the text alone.`, text)
	}

	if genre := strings.TrimSpace(in.Genre); genre != "" {
		return fmt.Sprintf(`Look at this photo and recommend 3 %s songs that capture its mood,
colors, setting and energy. Stay within %s but vary the picks across its subgenres or eras.`,
			genre, genre)
	}

	return `Look at this photo and surprise me: recommend 3 songs purely from the atmosphere
you read in it - the light, the place, the feeling. Any genre goes.`
}
