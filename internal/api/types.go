package api

import "github.com/satriahrh/stationcast/domain/entities"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// StationCreatedResponse represents the response payload for a station submission
type StationCreatedResponse struct {
	Message string            `json:"message"`
	Station *entities.Station `json:"station"`
}

// TrainUpdatedResponse represents the response payload for a train update
type TrainUpdatedResponse struct {
	Message string          `json:"message"`
	Train   *entities.Train `json:"train"`
}
