package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vibematch/vibematch-api/internal/config"
	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/metrics"
	"github.com/vibematch/vibematch-api/internal/middleware"
	"github.com/vibematch/vibematch-api/internal/models"
	"github.com/vibematch/vibematch-api/internal/recommend"
	"github.com/vibematch/vibematch-api/internal/services"
	"gorm.io/gorm"
)

// Recommender runs the recommendation pipeline. Satisfied by
// *recommend.Pipeline; an interface so tests can substitute the whole run.
type Recommender interface {
	Run(c *gin.Context, req *recommend.Request) (*recommend.Result, error)
}

// pipelineRecommender adapts *recommend.Pipeline to the gin-context entry
// point handlers use.
type pipelineRecommender struct {
	pipeline *recommend.Pipeline
}

func (r pipelineRecommender) Run(c *gin.Context, req *recommend.Request) (*recommend.Result, error) {
	return r.pipeline.Run(c.Request.Context(), req)
}

// RecommendHandler serves POST /api/v1/recommendations.
type RecommendHandler struct {
	cfg         *config.Config
	recommender Recommender
	history     *recommend.HistoryStore
	credits     *services.CreditsService
	metrics     *metrics.SentryMetrics
}

// NewRecommendHandler wires the production pipeline.
func NewRecommendHandler(cfg *config.Config, db *gorm.DB, recommender Recommender) *RecommendHandler {
	return &RecommendHandler{
		cfg:         cfg,
		recommender: recommender,
		history:     recommend.NewHistoryStore(db),
		credits:     services.NewCreditsService(db),
		metrics:     metrics.NewSentryMetrics(),
	}
}

// NewPipelineRecommender builds the default Recommender from a pipeline.
func NewPipelineRecommender(pipeline *recommend.Pipeline) Recommender {
	return pipelineRecommender{pipeline: pipeline}
}

type recommendRequest struct {
	ImageURL         string   `json:"imageUrl"`
	Genre            string   `json:"genre"`
	CustomRequest    string   `json:"customRequest"`
	HasCustomRequest *bool    `json:"hasCustomRequest"`
	HasGenre         *bool    `json:"hasGenre"`
	UserID           string   `json:"userId"`
	AvoidTracks      []string `json:"avoidTracks"`
	AvoidArtists     []string `json:"avoidArtists"`
}

// songResponse is the wire shape of one song. Track ids stay internal; they
// only exist to feed avoidance sets on later requests.
type songResponse struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Reason     string   `json:"reason"`
	MoodTags   []string `json:"mood_tags"`
	Language   string   `json:"language"`
	SpotifyURL *string  `json:"spotify_url"`
	AlbumCover *string  `json:"album_cover"`
}

// Recommend handles one recommendation request end to end: pipeline run,
// response mapping, then the non-fatal bookkeeping (history, credits, usage).
func (h *RecommendHandler) Recommend(c *gin.Context) {
	start := time.Now()

	var body recommendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if h.cfg.OpenAIAPIKey == "" {
		logger.Error("recommendation request with no model API key configured", nil, logger.Fields{
			"request_id": c.GetString("request_id"),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server is misconfigured"})
		return
	}

	// The has* flags let clients send a field without activating it.
	customText := body.CustomRequest
	if body.HasCustomRequest != nil && !*body.HasCustomRequest {
		customText = ""
	}
	genre := body.Genre
	if body.HasGenre != nil && !*body.HasGenre {
		genre = ""
	}

	user, authenticated := middleware.GetCurrentUser(c)
	callerID := body.UserID
	if authenticated {
		callerID = strconv.FormatUint(uint64(user.ID), 10)
	}

	req, err := recommend.NewRequest(body.ImageURL, genre, customText, callerID, body.AvoidTracks, body.AvoidArtists)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.recommender.Run(c, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	songs := result.Outcome.Songs
	response := gin.H{"songs": toSongResponses(songs)}
	if result.Outcome.Warning != "" {
		response["warning"] = result.Outcome.Warning
	}
	c.JSON(http.StatusOK, response)

	duration := time.Since(start)
	h.metrics.RecordTokenUsage(c.Request.Context(), h.cfg.OpenAIModel,
		result.Usage.TotalTokens, result.Usage.InputTokens, result.Usage.OutputTokens)
	h.metrics.RecordRecommendationOutcome(c.Request.Context(), len(songs),
		result.Outcome.Warning != "", duration)

	if err := h.history.Save(c.Request.Context(), callerID, songs); err != nil {
		logger.Warn("failed to persist recommendation history", logger.Fields{
			"caller_id": callerID,
			"error":     err.Error(),
		})
	}

	if authenticated {
		h.chargeAndLog(c, user, result, len(songs), duration)
	}
}

// chargeAndLog deducts the flat per-recommendation credit and writes the
// usage row. Only reached on success or partial success; 4xx/5xx paths and
// guests are never charged.
func (h *RecommendHandler) chargeAndLog(c *gin.Context, user *models.User, result *recommend.Result, songs int, duration time.Duration) {
	cost := h.credits.CalculateCredits(int(result.Usage.TotalTokens))

	if err := h.credits.DeductCredits(user.ID, cost); err != nil {
		logger.Warn("failed to deduct credits", logger.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	usage := &models.UsageLog{
		UserID:         user.ID,
		Model:          h.cfg.OpenAIModel,
		TotalTokens:    int(result.Usage.TotalTokens),
		InputTokens:    int(result.Usage.InputTokens),
		OutputTokens:   int(result.Usage.OutputTokens),
		CreditsCharged: cost,
		SongsReturned:  songs,
		DurationMS:     int(duration.Milliseconds()),
		RequestID:      c.GetString("request_id"),
	}
	if err := h.credits.LogUsage(usage); err != nil {
		logger.Warn("failed to write usage log", logger.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}
}

// writeError maps pipeline errors to the response contract.
func (h *RecommendHandler) writeError(c *gin.Context, err error) {
	var badRequest *recommend.BadRequestError
	var fetchErr *recommend.UpstreamFetchError
	var authErr *recommend.UpstreamAuthError
	var reqErr *recommend.UpstreamRequestError
	var malformed *recommend.MalformedResponseError
	var noMatches *recommend.NoMatchesError

	switch {
	case errors.As(err, &badRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": badRequest.Reason})
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch the provided image"})
	case errors.As(err, &authErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server is misconfigured"})
	case errors.As(err, &reqErr):
		c.JSON(reqErr.StatusCode, gin.H{
			"error":   "Model provider rejected the request",
			"details": reqErr.Details,
		})
	case errors.As(err, &malformed):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Could not understand the model response",
			"message": "Please try again",
		})
	case errors.As(err, &noMatches):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "No songs found",
			"message": "None of the recommendations could be found on Spotify. Try a different photo or request.",
		})
	default:
		logger.Error("unhandled recommendation error", err, logger.Fields{
			"request_id": c.GetString("request_id"),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func toSongResponses(songs []models.Song) []songResponse {
	out := make([]songResponse, 0, len(songs))
	for _, s := range songs {
		out = append(out, songResponse{
			Title:      s.Title,
			Artist:     s.Artist,
			Reason:     s.Reason,
			MoodTags:   s.MoodTags,
			Language:   s.Language,
			SpotifyURL: s.SpotifyURL,
			AlbumCover: s.AlbumCover,
		})
	}
	return out
}
