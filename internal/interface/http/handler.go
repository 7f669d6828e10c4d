package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
	apperrors "github.com/yanqian/playlist-recommender/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	recommendations recommendation.Service
	logger          *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc recommendation.Service, logger *slog.Logger) *Handler {
	return &Handler{
		recommendations: svc,
		logger:          logger.With("component", "http.handler"),
	}
}

// RecommendWeather resolves a playlist from the current weather.
func (h *Handler) RecommendWeather(c *gin.Context) {
	var req recommendation.WeatherRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.recommendations.RecommendWeather(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	h.logResolution(c, resp)
	c.JSON(http.StatusOK, resp)
}

// RecommendDate resolves a playlist from today's date and upcoming holidays.
func (h *Handler) RecommendDate(c *gin.Context) {
	var req recommendation.DateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.recommendations.RecommendDate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	h.logResolution(c, resp)
	c.JSON(http.StatusOK, resp)
}

// GetTimeframe returns the current lookahead window.
func (h *Handler) GetTimeframe(c *gin.Context) {
	c.JSON(http.StatusOK, h.recommendations.Timeframe(c.Request.Context()))
}

// SetTimeframe replaces the lookahead window.
func (h *Handler) SetTimeframe(c *gin.Context) {
	var req recommendation.TimeframeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	tf, err := h.recommendations.SetTimeframe(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	h.logger.Info("timeframe changed", "timeframe", tf.String(), "account", accountID(c))
	c.JSON(http.StatusOK, tf)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) logResolution(c *gin.Context, resp recommendation.Recommendation) {
	h.logger.Info("recommendation served",
		"trigger", resp.Trigger,
		"category", resp.Category.String(),
		"fallback", resp.Fallback,
		"playlists", len(resp.Playlists),
		"account", accountID(c),
		"request_id", c.GetString(requestIDKey),
	)
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

func toHTTPError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "recommendation_failed"
	switch {
	case apperrors.IsCode(err, recommendation.CodeInvalidTimeframe):
		status, code = http.StatusBadRequest, recommendation.CodeInvalidTimeframe
	case apperrors.IsCode(err, recommendation.CodeInvalidInput):
		status, code = http.StatusBadRequest, "invalid_request"
	case apperrors.IsCode(err, recommendation.CodeTimeframePersist):
		status, code = http.StatusServiceUnavailable, recommendation.CodeTimeframePersist
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
