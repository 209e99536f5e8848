package recommend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibematch/vibematch-api/internal/llm"
	"github.com/vibematch/vibematch-api/internal/models"
	"github.com/vibematch/vibematch-api/internal/prompt"
	"github.com/vibematch/vibematch-api/internal/spotify"
)

type stubGenerator struct {
	candidates []models.CandidateRecommendation
	err        error

	lastSystemPrompt string
	lastUserPrompt   string
	lastImageDataURL string
}

func (s *stubGenerator) Generate(_ context.Context, systemPrompt, userPrompt, imageDataURL string) (*Generation, error) {
	s.lastSystemPrompt = systemPrompt
	s.lastUserPrompt = userPrompt
	s.lastImageDataURL = imageDataURL
	if s.err != nil {
		return nil, s.err
	}
	return &Generation{
		Candidates: s.candidates,
		Usage:      llm.Usage{TotalTokens: 100, InputTokens: 80, OutputTokens: 20},
	}, nil
}

type stubSession struct {
	tracks map[string]*spotify.Track
	err    error
}

func (s *stubSession) ResolveTrack(_ context.Context, title, _, _ string) (*spotify.Track, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks[title], nil
}

type stubCatalog struct {
	session    *stubSession
	sessionErr error
}

func (s *stubCatalog) StartSession(context.Context) (CatalogSession, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return s.session, nil
}

func spotifyTrackFor(id, title, artist string) *spotify.Track {
	return &spotify.Track{
		ID:         id,
		Title:      title,
		Artist:     artist,
		URL:        "https://open.spotify.com/track/" + id,
		AlbumCover: "https://img/" + id,
	}
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte{0xFF, 0xD8})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestPipeline(gen *stubGenerator, catalog Catalog) *Pipeline {
	return NewPipeline(NewHistoryStore(nil), NewImageEncoder(nil), prompt.NewBuilder(), gen, catalog)
}

func TestPipelineFullResolution(t *testing.T) {
	gen := &stubGenerator{candidates: []models.CandidateRecommendation{
		{Title: "A", Artist: "Artist 1", Reason: "fits", MoodTags: []string{"warm"}},
		{Title: "B", Artist: "Artist 2"},
		{Title: "C", Artist: "Artist 3"},
	}}
	catalog := &stubCatalog{session: &stubSession{tracks: map[string]*spotify.Track{
		"A": spotifyTrackFor("ta", "A", "Artist 1"),
		"B": spotifyTrackFor("tb", "B", "Artist 2"),
		"C": spotifyTrackFor("tc", "C", "Artist 3"),
	}}}
	pipeline := newTestPipeline(gen, catalog)

	req, err := NewRequest(imageServer(t).URL+"/p.jpg", "", "", "", nil, nil)
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Outcome.Songs, 3)
	assert.Empty(t, result.Outcome.Warning)
	assert.Equal(t, "ta", result.Outcome.Songs[0].TrackID)
	assert.Equal(t, "https://open.spotify.com/track/ta", *result.Outcome.Songs[0].SpotifyURL)
	assert.Equal(t, "fits", result.Outcome.Songs[0].Reason)
	assert.Equal(t, "en", result.Outcome.Songs[0].Language)
	assert.Equal(t, int64(100), result.Usage.TotalTokens)
	assert.NotEmpty(t, gen.lastImageDataURL)
}

func TestPipelineCustomTextSkipsImage(t *testing.T) {
	gen := &stubGenerator{candidates: []models.CandidateRecommendation{
		{Title: "A", Artist: "Artist 1"},
		{Title: "B", Artist: "Artist 2"},
		{Title: "C", Artist: "Artist 3"},
	}}
	catalog := &stubCatalog{session: &stubSession{tracks: map[string]*spotify.Track{
		"A": spotifyTrackFor("ta", "A", "Artist 1"),
		"B": spotifyTrackFor("tb", "B", "Artist 2"),
		"C": spotifyTrackFor("tc", "C", "Artist 3"),
	}}}
	pipeline := newTestPipeline(gen, catalog)

	// Image URL deliberately unfetchable; custom-text mode must not touch it.
	req, err := NewRequest("http://127.0.0.1:1/p.jpg", "", "rainy drive", "", nil, nil)
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Outcome.Songs, 3)
	assert.Empty(t, gen.lastImageDataURL)
	assert.Contains(t, gen.lastUserPrompt, "rainy drive")
}

func TestPipelineImageFetchFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	pipeline := newTestPipeline(&stubGenerator{}, &stubCatalog{})
	req, err := NewRequest(server.URL+"/p.jpg", "", "", "", nil, nil)
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background(), req)

	var fetchErr *UpstreamFetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestPipelineDegradesWhenCatalogSessionFails(t *testing.T) {
	gen := &stubGenerator{candidates: []models.CandidateRecommendation{
		{Title: "A", Artist: "Artist 1"},
		{Title: "B", Artist: "Artist 2"},
		{Title: "C", Artist: "Artist 3"},
	}}
	catalog := &stubCatalog{sessionErr: errors.New("credentials not configured")}
	pipeline := newTestPipeline(gen, catalog)

	req, err := NewRequest(imageServer(t).URL+"/p.jpg", "", "", "", nil, nil)
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Outcome.Songs, 3)
	for _, s := range result.Outcome.Songs {
		assert.Nil(t, s.SpotifyURL)
		assert.Nil(t, s.AlbumCover)
		assert.Empty(t, s.TrackID)
	}
}

func TestPipelineDropsUnresolvedCandidates(t *testing.T) {
	gen := &stubGenerator{candidates: []models.CandidateRecommendation{
		{Title: "A", Artist: "Artist 1"},
		{Title: "B", Artist: "Artist 2"},
		{Title: "C", Artist: "Artist 3"},
	}}
	catalog := &stubCatalog{session: &stubSession{tracks: map[string]*spotify.Track{
		"A": spotifyTrackFor("ta", "A", "Artist 1"),
	}}}
	pipeline := newTestPipeline(gen, catalog)

	req, err := NewRequest(imageServer(t).URL+"/p.jpg", "", "", "", nil, nil)
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Outcome.Songs, 1)
	assert.NotEmpty(t, result.Outcome.Warning)
}

func TestPipelineZeroResolvedIsNoMatches(t *testing.T) {
	gen := &stubGenerator{candidates: []models.CandidateRecommendation{
		{Title: "A", Artist: "Artist 1"},
		{Title: "B", Artist: "Artist 2"},
		{Title: "C", Artist: "Artist 3"},
	}}
	catalog := &stubCatalog{session: &stubSession{tracks: map[string]*spotify.Track{}}}
	pipeline := newTestPipeline(gen, catalog)

	req, err := NewRequest(imageServer(t).URL+"/p.jpg", "", "", "", nil, nil)
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background(), req)

	var noMatches *NoMatchesError
	assert.ErrorAs(t, err, &noMatches)
}

func TestPipelineEnforcesAvoidedArtists(t *testing.T) {
	// The model disobeys the avoidance instruction; the validation pass must
	// still keep the avoided artist out of the output.
	gen := &stubGenerator{candidates: []models.CandidateRecommendation{
		{Title: "A", Artist: "Khruangbin"},
		{Title: "B", Artist: "Artist 2"},
		{Title: "C", Artist: "Artist 3"},
	}}
	catalog := &stubCatalog{session: &stubSession{tracks: map[string]*spotify.Track{
		"A": spotifyTrackFor("ta", "A", "Khruangbin"),
		"B": spotifyTrackFor("tb", "B", "Artist 2"),
		"C": spotifyTrackFor("tc", "C", "Artist 3"),
	}}}
	pipeline := newTestPipeline(gen, catalog)

	req, err := NewRequest(imageServer(t).URL+"/p.jpg", "", "", "", nil, []string{"Khruangbin"})
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), req)

	require.NoError(t, err)
	for _, s := range result.Outcome.Songs {
		assert.NotEqual(t, "Khruangbin", s.Artist)
	}
	assert.Contains(t, gen.lastSystemPrompt, "Khruangbin")
}

func TestPipelineDropsResolvedTracksInAvoidanceSet(t *testing.T) {
	// The model re-recommends a song the caller has already seen; the title
	// differs but resolution lands on the avoided track id, which is the key
	// the avoidance set actually holds.
	gen := &stubGenerator{candidates: []models.CandidateRecommendation{
		{Title: "A", Artist: "Artist 1"},
		{Title: "B", Artist: "Artist 2"},
		{Title: "C", Artist: "Artist 3"},
	}}
	catalog := &stubCatalog{session: &stubSession{tracks: map[string]*spotify.Track{
		"A": spotifyTrackFor("ta", "A", "Artist 1"),
		"B": spotifyTrackFor("tb", "B", "Artist 2"),
		"C": spotifyTrackFor("tc", "C", "Artist 3"),
	}}}
	pipeline := newTestPipeline(gen, catalog)

	req, err := NewRequest(imageServer(t).URL+"/p.jpg", "", "", "", []string{"ta"}, nil)
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Outcome.Songs, 2)
	for _, s := range result.Outcome.Songs {
		assert.NotEqual(t, "ta", s.TrackID)
	}
	assert.NotEmpty(t, result.Outcome.Warning)
}

func TestMergeListsKeepsTrackIDCase(t *testing.T) {
	// Catalog ids are case-sensitive base62; "Ab" and "aB" are different
	// tracks and must both survive the merge.
	got := mergeLists([]string{"4uLU6hMCjMI75M1A2tKUQC"},
		[]string{"4uLU6hMCjMI75M1A2tKUQc"},
		func(s string) string { return s })

	assert.Len(t, got, 2)
}

func TestMergeListsFoldsArtists(t *testing.T) {
	got := mergeLists([]string{"Beach House"}, []string{"beach  house", "Alvvays"}, normalizeArtist)

	assert.Equal(t, []string{"Beach House", "Alvvays"}, got)
}

func TestPipelinePropagatesGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: &MalformedResponseError{Err: errors.New("bad json")}}
	pipeline := newTestPipeline(gen, &stubCatalog{})

	req, err := NewRequest(imageServer(t).URL+"/p.jpg", "", "", "", nil, nil)
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background(), req)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}
