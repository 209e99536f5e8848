package recommend

import (
	"context"

	"github.com/vibematch/vibematch-api/internal/llm"
	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/models"
	"github.com/vibematch/vibematch-api/internal/prompt"
	"github.com/vibematch/vibematch-api/internal/spotify"
)

// Response language is fixed until localization lands in the prompt rules.
const songLanguage = "en"

// CandidateGenerator produces candidate recommendations from prompts.
// Satisfied by *Generator; narrowed to an interface so handler tests can
// stub the model call.
type CandidateGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt, imageDataURL string) (*Generation, error)
}

// CatalogSession resolves candidates against an authenticated catalog session.
type CatalogSession interface {
	ResolveTrack(ctx context.Context, title, artist, searchHint string) (*spotify.Track, error)
}

// Catalog opens per-request catalog sessions. Token issuance failure is a
// degradation, not a request failure: songs go out without links.
type Catalog interface {
	StartSession(ctx context.Context) (CatalogSession, error)
}

// SpotifyCatalog adapts the concrete Spotify client to the Catalog interface.
func SpotifyCatalog(client *spotify.Client) Catalog {
	return spotifyCatalog{client: client}
}

type spotifyCatalog struct {
	client *spotify.Client
}

func (c spotifyCatalog) StartSession(ctx context.Context) (CatalogSession, error) {
	return c.client.StartSession(ctx)
}

// Pipeline runs one recommendation request end to end.
type Pipeline struct {
	history   *HistoryStore
	encoder   *ImageEncoder
	prompts   *prompt.Builder
	generator CandidateGenerator
	catalog   Catalog
}

// Result is a finished pipeline run plus the token usage the API layer needs
// for usage logging.
type Result struct {
	Outcome *Outcome
	Usage   llm.Usage
}

// NewPipeline wires the stages together.
func NewPipeline(history *HistoryStore, encoder *ImageEncoder, prompts *prompt.Builder, generator CandidateGenerator, catalog Catalog) *Pipeline {
	return &Pipeline{
		history:   history,
		encoder:   encoder,
		prompts:   prompts,
		generator: generator,
		catalog:   catalog,
	}
}

// Run executes the stages in order: avoidance sets, image encoding, prompt
// building, generation, constraint validation, catalog resolution, and
// post-processing. Errors returned here map 1:1 to response statuses in the
// API layer.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Result, error) {
	avoid := p.history.AvoidanceSetsFor(ctx, req.CallerID)
	// Track ids are case-sensitive; artists are compared folded.
	avoidTracks := mergeLists(req.AvoidTracks, avoid.Tracks, func(s string) string { return s })
	avoidArtists := mergeLists(req.AvoidArtists, avoid.Artists, normalizeArtist)

	var imageDataURL string
	if req.NeedsImage() {
		encoded, err := p.encoder.EncodeFromURL(ctx, req.ImageURL)
		if err != nil {
			return nil, err
		}
		imageDataURL = encoded
	}

	input := prompt.Input{
		Genre:        req.Genre,
		CustomText:   req.CustomText,
		AvoidTracks:  avoidTracks,
		AvoidArtists: avoidArtists,
	}
	systemPrompt := p.prompts.BuildSystemPrompt(input)
	userPrompt := p.prompts.BuildUserPrompt(input)

	gen, err := p.generator.Generate(ctx, systemPrompt, userPrompt, imageDataURL)
	if err != nil {
		return nil, err
	}

	candidates, _ := ValidateCandidates(gen.Candidates, avoidArtists)
	if len(candidates) == 0 {
		return nil, &NoMatchesError{Failed: len(gen.Candidates)}
	}

	songs := p.resolveCandidates(ctx, candidates, avoidTracks)

	outcome, err := Finalize(songs, len(gen.Candidates))
	if err != nil {
		return nil, err
	}

	return &Result{Outcome: outcome, Usage: gen.Usage}, nil
}

// resolveCandidates looks each candidate up on the catalog, in order. A dead
// catalog session degrades the whole batch to link-less songs instead of
// failing the request; a per-candidate miss or error drops that candidate.
// A candidate that resolves to a track id in the avoidance set is dropped
// too: the model was told to skip it and the prompt is not trusted to have
// worked.
func (p *Pipeline) resolveCandidates(ctx context.Context, candidates []models.CandidateRecommendation, avoidTracks []string) []models.Song {
	avoidTrackSet := make(map[string]struct{}, len(avoidTracks))
	for _, id := range avoidTracks {
		avoidTrackSet[id] = struct{}{}
	}
	session, err := p.catalog.StartSession(ctx)
	if err != nil {
		logger.Warn("catalog session unavailable, returning songs without links", logger.Fields{
			"error": err.Error(),
		})
		songs := make([]models.Song, 0, len(candidates))
		for _, c := range candidates {
			songs = append(songs, songFromCandidate(c))
		}
		return songs
	}

	songs := make([]models.Song, 0, len(candidates))
	for _, c := range candidates {
		track, err := session.ResolveTrack(ctx, c.Title, c.Artist, c.SearchQuery)
		if err != nil {
			logger.Warn("catalog lookup failed for candidate", logger.Fields{
				"title":  c.Title,
				"artist": c.Artist,
				"error":  err.Error(),
			})
			continue
		}
		if track == nil {
			logger.Info("no catalog match for candidate", logger.Fields{
				"title":  c.Title,
				"artist": c.Artist,
			})
			continue
		}
		if _, hit := avoidTrackSet[track.ID]; hit {
			logger.Warn("model violated a recommendation constraint", logger.Fields{
				"rule":     "avoid_tracks",
				"track_id": track.ID,
				"title":    c.Title,
				"artist":   c.Artist,
			})
			continue
		}

		song := songFromCandidate(c)
		song.TrackID = track.ID
		song.Title = track.Title
		song.Artist = track.Artist
		song.SpotifyURL = &track.URL
		if track.AlbumCover != "" {
			cover := track.AlbumCover
			song.AlbumCover = &cover
		}
		songs = append(songs, song)
	}

	return songs
}

func songFromCandidate(c models.CandidateRecommendation) models.Song {
	return models.Song{
		Title:    c.Title,
		Artist:   c.Artist,
		Reason:   c.Reason,
		MoodTags: c.MoodTags,
		Language: songLanguage,
	}
}

func mergeLists(a, b []string, key func(string) string) []string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		k := key(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
