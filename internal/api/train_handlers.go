package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain/entities"
	"github.com/satriahrh/stationcast/internal/metrics"
	"github.com/satriahrh/stationcast/usecase"
)

const (
	trainNotFound = "Train not found"
	audioNotFound = "Audio file not found for this train"

	audioFormField = "audioFilePath"
)

func getTrain(c echo.Context, linkage *usecase.LinkageService, logger *zap.Logger) error {
	train, err := linkage.GetTrainByNumber(c.Request().Context(), c.Param("trainNumber"))
	if err != nil {
		return respondError(c, err, trainNotFound, logger)
	}
	return c.JSON(http.StatusOK, train)
}

func updateTrain(c echo.Context, linkage *usecase.LinkageService, maxAudioBytes int64, logger *zap.Logger) error {
	var patch entities.TrainPatch
	if err := c.Bind(&patch); err != nil {
		if isBodyTooLarge(err) {
			return respondFileTooLarge(c, maxAudioBytes)
		}
		logger.Warn("Failed to bind train update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	var audio *usecase.AudioUpload
	fileHeader, err := c.FormFile(audioFormField)
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded file", zap.Error(err))
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Unable to read uploaded file",
			})
		}
		defer file.Close()

		audio = &usecase.AudioUpload{
			Body:     file,
			FileName: fileHeader.Filename,
			Size:     fileHeader.Size,
		}

	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no audio attached

	case isBodyTooLarge(err):
		return respondFileTooLarge(c, maxAudioBytes)

	default:
		logger.Warn("Failed to parse multipart form", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid multipart form",
		})
	}

	train, err := linkage.UpdateTrain(c.Request().Context(), c.Param("trainNumber"), patch, audio)
	if err != nil {
		return respondError(c, err, trainNotFound, logger)
	}

	return c.JSON(http.StatusOK, TrainUpdatedResponse{
		Message: "Train updated successfully",
		Train:   train,
	})
}

// streamTrainAudio relays the stored audio without buffering the whole file.
// The relay is cancelled when the client goes away or the timeout elapses.
func streamTrainAudio(c echo.Context, proxy *usecase.AudioProxy, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	trainNumber := c.Param("trainNumber")

	stream, err := proxy.Open(ctx, trainNumber)
	if err != nil {
		return respondError(c, err, audioNotFound, logger)
	}
	defer stream.Body.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, stream.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, "inline")
	if stream.ContentLength >= 0 {
		res.Header().Set(echo.HeaderContentLength, strconv.FormatInt(stream.ContentLength, 10))
	}
	res.WriteHeader(http.StatusOK)

	written, err := relay(res, stream.Body)
	m.AddRelayedBytes(written)
	if err != nil {
		// Headers are already out; a short body is all the client can be told
		logger.Error("Error streaming audio file",
			zap.String("train_number", trainNumber),
			zap.Int64("bytes", written),
			zap.Error(err))
		return err
	}

	return nil
}
