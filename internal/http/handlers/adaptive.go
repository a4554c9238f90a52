package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/services"
	"github.com/langflix/langflix-backend/internal/types"
)

// AdaptiveHandler exposes the adaptive difficulty engine over HTTP. Everything
// routes through the orchestrator; the feed service is only needed for the
// feed endpoints.
type AdaptiveHandler struct {
	log  *logger.Logger
	orch services.Orchestrator
	feed services.FeedService
}

func NewAdaptiveHandler(log *logger.Logger, orch services.Orchestrator, feed services.FeedService) *AdaptiveHandler {
	return &AdaptiveHandler{
		log:  log.With("handler", "AdaptiveHandler"),
		orch: orch,
		feed: feed,
	}
}

// interactionEnvelope is the wire form of one interaction: a type tag plus the
// kind-specific payload fields, flat in the same object.
type interactionEnvelope struct {
	Type types.InteractionKind `json:"type"`
}

func decodeInteraction(raw []byte) (types.Interaction, error) {
	var env interactionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid interaction payload: %w", err)
	}

	switch env.Type {
	case types.KindWordClick:
		return decodeAs[types.WordClickInteraction](raw, env.Type)
	case types.KindCompletion:
		return decodeAs[types.CompletionInteraction](raw, env.Type)
	case types.KindButtonClick:
		return decodeAs[types.ButtonClickInteraction](raw, env.Type)
	case types.KindQuiz:
		return decodeAs[types.QuizInteraction](raw, env.Type)
	case types.KindWordSave:
		return decodeAs[types.WordSaveInteraction](raw, env.Type)
	case types.KindTranslationDwell:
		return decodeAs[types.TranslationDwellInteraction](raw, env.Type)
	case types.KindVideoEvent:
		return decodeAs[types.VideoEventInteraction](raw, env.Type)
	case types.KindMicroInteractions:
		return decodeAs[types.MicroInteractionsInteraction](raw, env.Type)
	case types.KindWatchInterval:
		return decodeAs[types.WatchIntervalInteraction](raw, env.Type)
	case types.KindRewatch:
		return decodeAs[types.RewatchInteraction](raw, env.Type)
	case types.KindSkip:
		return decodeAs[types.SkipInteraction](raw, env.Type)
	default:
		return nil, fmt.Errorf("%w: %q", services.ErrUnknownInteractionType, env.Type)
	}
}

func decodeAs[T types.Interaction](raw []byte, kind types.InteractionKind) (types.Interaction, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", kind, err)
	}
	return v, nil
}

func (h *AdaptiveHandler) RecordInteraction(c *gin.Context) {
	userID := c.Param("userId")

	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	in, err := decodeInteraction(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_interaction", err)
		return
	}

	outcome, err := h.orch.RecordInteraction(c.Request.Context(), userID, in)
	if err != nil {
		status := http.StatusInternalServerError
		code := "internal"
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrUnknownInteractionType) {
			status = http.StatusBadRequest
			code = "bad_interaction"
		}
		RespondError(c, status, code, err)
		return
	}
	RespondOK(c, outcome)
}

func (h *AdaptiveHandler) GetSignals(c *gin.Context) {
	RespondOK(c, h.orch.GetSignals(c.Param("userId")))
}

func (h *AdaptiveHandler) AssessInitialLevel(c *gin.Context) {
	var req types.QuickTestResult
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	assessment, err := h.orch.AssessInitialLevel(c.Param("userId"), req)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_assessment", err)
		return
	}
	RespondOK(c, assessment)
}

func (h *AdaptiveHandler) AdjustRealtime(c *gin.Context) {
	var req types.AdjustmentSignal
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	RespondOK(c, h.orch.AdjustRealtime(c.Request.Context(), c.Param("userId"), req))
}

func (h *AdaptiveHandler) ScoreContent(c *gin.Context) {
	var req []types.ContentItem
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	RespondOK(c, h.orch.ScoreContent(c.Param("userId"), req))
}

func (h *AdaptiveHandler) GetFeed(c *gin.Context) {
	userID := c.Param("userId")
	filter := services.ContentFilter{
		Topic: c.Query("topic"),
		Type:  c.Query("type"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}

	var page *types.FeedPage
	var err error
	if c.Query("refresh") == "true" {
		page, err = h.feed.ForceRefresh(c.Request.Context(), userID, filter)
	} else {
		page, err = h.feed.GetPersonalizedFeed(c.Request.Context(), userID, filter)
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "feed_failed", err)
		return
	}
	RespondOK(c, page)
}

func (h *AdaptiveHandler) GetProfile(c *gin.Context) {
	RespondOK(c, h.orch.GetProfile(c.Param("userId")))
}

type knownWordsRequest struct {
	Words []string `json:"words"`
}

func (h *AdaptiveHandler) SetKnownWords(c *gin.Context) {
	var req knownWordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.orch.SetKnownWords(c.Request.Context(), c.Param("userId"), req.Words)
	RespondOK(c, gin.H{"knownWordCount": len(req.Words)})
}

type milestoneRequest struct {
	WordCount int `json:"wordCount"`
}

func (h *AdaptiveHandler) CheckMilestone(c *gin.Context) {
	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	milestone, err := h.orch.CheckMilestone(c.Request.Context(), c.Param("userId"), req.WordCount)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	RespondOK(c, gin.H{"milestone": milestone})
}

func (h *AdaptiveHandler) GetBeginnerSettings(c *gin.Context) {
	RespondOK(c, h.orch.GetBeginnerSettings(c.Param("userId")))
}

func (h *AdaptiveHandler) GetSessionStats(c *gin.Context) {
	stats := h.orch.SessionStats(c.Param("userId"))
	if stats == nil {
		RespondError(c, http.StatusNotFound, "no_session", errors.New("no active session"))
		return
	}
	RespondOK(c, stats)
}

func (h *AdaptiveHandler) CheckProgression(c *gin.Context) {
	RespondOK(c, h.orch.CheckProgression(c.Param("userId")))
}
