package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storyreel/internal/brief"
	"storyreel/internal/history"
	"storyreel/internal/pipeline"
	"storyreel/internal/scenario"
	"storyreel/internal/session"
)

// generateRequest is the POST /api/generate body. Zero numeric fields fall
// back to the configured generation defaults.
type generateRequest struct {
	Prompt       string               `json:"prompt"`
	TotalSeconds int                  `json:"totalSeconds"`
	CutSeconds   int                  `json:"cutSeconds"`
	CutCount     int                  `json:"cutCount"`
	Era          string               `json:"era"`
	Region       string               `json:"region"`
	Voice        voiceParams          `json:"voice"`
	Characters   []scenario.Character `json:"characters"`
	Locale       string               `json:"locale"`
}

type voiceParams struct {
	Tone    string `json:"tone"`
	Gender  string `json:"gender"`
	Emotion string `json:"emotion"`
	Reverb  string `json:"reverb"`
}

type generateResponse struct {
	ID        string             `json:"id"`
	RunID     string             `json:"runId"`
	CreatedAt time.Time          `json:"createdAt"`
	Document  *scenario.Document `json:"document"`
}

type entrySummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Title        string    `json:"title"`
	Prompt       string    `json:"prompt"`
	Locale       string    `json:"locale"`
	TotalSeconds int       `json:"totalSeconds"`
	Scenes       int       `json:"scenes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	RunID string `json:"runId,omitempty"`
}

func (s *Server) handleStatus(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	payload := gin.H{"status": "ok", "entries": stats.Entries}
	if !stats.Latest.IsZero() {
		payload["latest"] = stats.Latest
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := s.lock.Acquire(); err != nil {
		if errors.Is(err, session.ErrBusy) {
			c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	defer func() { _ = s.lock.Release() }()

	raw := s.rawInput(req)
	result, err := s.generator.Generate(c.Request.Context(), raw)
	if err != nil {
		status, resp := classifyFailure(err)
		c.JSON(status, resp)
		return
	}

	entry, err := s.store.Add(c.Request.Context(), &history.Entry{
		RunID:        result.RunID,
		Prompt:       result.Brief.Prompt,
		Locale:       result.Brief.Locale,
		TotalSeconds: result.Brief.TotalSeconds,
		CutSeconds:   result.Brief.CutSeconds,
		CutCount:     result.Brief.CutCount,
		Document:     result.Document,
	})
	if err != nil {
		s.logger.Error("store accepted document", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error(), RunID: result.RunID})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		ID:        entry.ID,
		RunID:     result.RunID,
		CreatedAt: entry.CreatedAt,
		Document:  result.Document,
	})
}

func (s *Server) rawInput(req generateRequest) brief.RawInput {
	raw := brief.RawInput{
		Prompt:       req.Prompt,
		TotalSeconds: req.TotalSeconds,
		CutSeconds:   req.CutSeconds,
		CutCount:     req.CutCount,
		Era:          req.Era,
		Region:       req.Region,
		Voice: brief.VoiceParams{
			Tone:    req.Voice.Tone,
			Gender:  req.Voice.Gender,
			Emotion: req.Voice.Emotion,
			Reverb:  req.Voice.Reverb,
		},
		Characters: req.Characters,
		Locale:     req.Locale,
	}
	if raw.TotalSeconds == 0 {
		raw.TotalSeconds = s.defaults.TotalSeconds
	}
	if raw.CutSeconds == 0 {
		raw.CutSeconds = s.defaults.CutSeconds
	}
	if raw.CutCount == 0 {
		raw.CutCount = s.defaults.CutCount
	}
	if raw.Locale == "" {
		raw.Locale = s.defaults.Locale
	}
	return raw
}

// classifyFailure maps pipeline failure kinds to HTTP statuses. Bad input is
// the caller's fault; everything downstream of the provider call is a bad
// gateway because retrying the same request may succeed.
func classifyFailure(err error) (int, errorResponse) {
	var perr *pipeline.Error
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	}

	resp := errorResponse{Error: perr.Err.Error(), Kind: string(perr.Kind), RunID: perr.RunID}
	switch perr.Kind {
	case pipeline.FailureInputRejected:
		return http.StatusUnprocessableEntity, resp
	case pipeline.FailureProviderUnavailable,
		pipeline.FailureEmptyResponse,
		pipeline.FailureMalformedPayload,
		pipeline.FailureInvariantViolation:
		return http.StatusBadGateway, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

func (s *Server) handleListScenarios(c *gin.Context) {
	limit := 0
	if value := c.Query("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	entries, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	summaries := make([]entrySummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, entrySummary{
			ID:           entry.ID,
			CreatedAt:    entry.CreatedAt,
			Title:        entry.Title,
			Prompt:       entry.Prompt,
			Locale:       entry.Locale,
			TotalSeconds: entry.TotalSeconds,
			Scenes:       len(entry.Document.Scenes),
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": summaries})
}

func (s *Server) handleGetScenario(c *gin.Context) {
	entry, err := s.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "scenario not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        entry.ID,
		"runId":     entry.RunID,
		"createdAt": entry.CreatedAt,
		"prompt":    entry.Prompt,
		"locale":    entry.Locale,
		"document":  entry.Document,
	})
}

func (s *Server) handleRemoveScenario(c *gin.Context) {
	removed, err := s.store.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, errorResponse{Error: "scenario not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearScenarios(c *gin.Context) {
	cleared, err := s.store.Clear(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": cleared})
}
