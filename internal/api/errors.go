package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain"
)

// respondError maps a domain error to its HTTP status and writes the JSON body.
// notFoundMessage is shown for domain.ErrNotFound.
func respondError(c echo.Context, err error, notFoundMessage string, logger *zap.Logger) error {
	var validationErr *domain.ValidationError
	var upstreamErr *domain.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: validationErr.Error(),
		})

	case errors.Is(err, domain.ErrAudioUnavailable):
		logger.Warn("Audio host rejected fetch", zap.Error(err))
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "audio_unavailable",
			Message: "Failed to fetch audio file",
		})

	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: notFoundMessage,
		})

	case errors.As(err, &upstreamErr):
		logger.Error("Audio host unreachable", zap.String("url", upstreamErr.URL), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "upstream_error",
			Message: "Error retrieving the audio file",
		})

	default:
		logger.Error("Request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
