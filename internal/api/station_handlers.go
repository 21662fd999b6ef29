package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain/entities"
	"github.com/satriahrh/stationcast/usecase"
)

const stationNotFound = "Station not found"

func createStation(c echo.Context, linkage *usecase.LinkageService, logger *zap.Logger) error {
	var req usecase.StationSubmission
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind station request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	station, err := linkage.SubmitStationWithTrains(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, stationNotFound, logger)
	}

	return c.JSON(http.StatusCreated, StationCreatedResponse{
		Message: "Station and train data added successfully",
		Station: station,
	})
}

func listStations(c echo.Context, linkage *usecase.LinkageService, logger *zap.Logger) error {
	stations, err := linkage.ListStations(c.Request().Context())
	if err != nil {
		return respondError(c, err, stationNotFound, logger)
	}
	return c.JSON(http.StatusOK, stations)
}

func getStation(c echo.Context, linkage *usecase.LinkageService, logger *zap.Logger) error {
	station, err := linkage.GetStationByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return respondError(c, err, stationNotFound, logger)
	}
	return c.JSON(http.StatusOK, station)
}

func updateStation(c echo.Context, linkage *usecase.LinkageService, logger *zap.Logger) error {
	var patch entities.StationPatch
	if err := c.Bind(&patch); err != nil {
		logger.Warn("Failed to bind station update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	station, err := linkage.UpdateStation(c.Request().Context(), c.Param("code"), patch)
	if err != nil {
		return respondError(c, err, stationNotFound, logger)
	}
	return c.JSON(http.StatusOK, station)
}

func deleteStation(c echo.Context, linkage *usecase.LinkageService, logger *zap.Logger) error {
	if err := linkage.DeleteStation(c.Request().Context(), c.Param("code")); err != nil {
		return respondError(c, err, stationNotFound, logger)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Station deleted successfully"})
}
