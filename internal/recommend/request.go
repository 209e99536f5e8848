package recommend

import "strings"

// Mode selects how the prompts are built.
type Mode int

const (
	// ModeSurprise asks for open-ended atmosphere-driven picks from the image.
	ModeSurprise Mode = iota
	// ModeGenre constrains picks to a named genre, still using the image.
	ModeGenre
	// ModeCustomText answers a free-text request and never uses the image.
	ModeCustomText
)

// Request is a validated recommendation request. CustomText takes precedence
// over Genre when both are present upstream.
type Request struct {
	ImageURL   string
	Mode       Mode
	Genre      string
	CustomText string

	// CallerID is the resolved identity ("" for guests). A bearer identity
	// overrides any client-supplied id.
	CallerID string

	// Avoidance sets supplied by the client; merged with recent history.
	AvoidTracks  []string
	AvoidArtists []string
}

// NewRequest validates the raw fields and derives the mode.
func NewRequest(imageURL, genre, customText, callerID string, avoidTracks, avoidArtists []string) (*Request, error) {
	customText = strings.TrimSpace(customText)
	genre = strings.TrimSpace(genre)

	if strings.TrimSpace(imageURL) == "" && customText == "" {
		return nil, &BadRequestError{Reason: "imageUrl is required"}
	}

	mode := ModeSurprise
	switch {
	case customText != "":
		mode = ModeCustomText
	case genre != "":
		mode = ModeGenre
	}

	return &Request{
		ImageURL:     strings.TrimSpace(imageURL),
		Mode:         mode,
		Genre:        genre,
		CustomText:   customText,
		CallerID:     callerID,
		AvoidTracks:  avoidTracks,
		AvoidArtists: avoidArtists,
	}, nil
}

// NeedsImage reports whether the pipeline must fetch and encode the photo.
func (r *Request) NeedsImage() bool {
	return r.Mode != ModeCustomText
}
