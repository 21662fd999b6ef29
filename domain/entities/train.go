package entities

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satriahrh/stationcast/domain"
)

// Train represents a scheduled service identified by a unique number
type Train struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	TrainName     string               `json:"trainName" bson:"trainName"`
	TrainNumber   string               `json:"trainNumber" bson:"trainNumber"`
	Source        string               `json:"source" bson:"source"`
	Destination   string               `json:"destination" bson:"destination"`
	ArrivalTime   string               `json:"arrivalTime" bson:"arrivalTime"`
	DepartureTime string               `json:"departureTime" bson:"departureTime"`
	StationIDs    []primitive.ObjectID `json:"stationIds" bson:"stationIds"`
	AudioFilePath string               `json:"audioFilePath,omitempty" bson:"audioFilePath,omitempty"`
}

// TrainDescriptor is a train as submitted inside a station payload
type TrainDescriptor struct {
	TrainNumber   string `json:"trainNumber"`
	TrainName     string `json:"trainName"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	ArrivalTime   string `json:"arrivalTime"`
	DepartureTime string `json:"departureTime"`
}

// NewTrain creates a train from a descriptor, linked to a single station
func NewTrain(d TrainDescriptor, stationID primitive.ObjectID) *Train {
	return &Train{
		TrainName:     d.TrainName,
		TrainNumber:   d.TrainNumber,
		Source:        d.Source,
		Destination:   d.Destination,
		ArrivalTime:   d.ArrivalTime,
		DepartureTime: d.DepartureTime,
		StationIDs:    []primitive.ObjectID{stationID},
	}
}

// HasStation reports whether the station id is already linked
func (t *Train) HasStation(id primitive.ObjectID) bool {
	for _, existing := range t.StationIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// LinkStation appends the station id unless already present.
// It returns false when the train was left unchanged.
func (t *Train) LinkStation(id primitive.ObjectID) bool {
	if t.HasStation(id) {
		return false
	}
	t.StationIDs = append(t.StationIDs, id)
	return true
}

// Validate validates the train data
func (t *Train) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"trainName", t.TrainName},
		{"trainNumber", t.TrainNumber},
		{"source", t.Source},
		{"destination", t.Destination},
		{"arrivalTime", t.ArrivalTime},
		{"departureTime", t.DepartureTime},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return domain.NewValidationError(r.field, "is required")
		}
	}
	return nil
}

// TrainPatch carries a partial train update. Empty fields mean "no change",
// so an empty string can never be written through a patch.
type TrainPatch struct {
	TrainName     string `json:"trainName" form:"trainName"`
	Source        string `json:"source" form:"source"`
	Destination   string `json:"destination" form:"destination"`
	ArrivalTime   string `json:"arrivalTime" form:"arrivalTime"`
	DepartureTime string `json:"departureTime" form:"departureTime"`
}

// Apply copies the non-empty fields onto the train
func (p TrainPatch) Apply(t *Train) {
	if p.TrainName != "" {
		t.TrainName = p.TrainName
	}
	if p.Source != "" {
		t.Source = p.Source
	}
	if p.Destination != "" {
		t.Destination = p.Destination
	}
	if p.ArrivalTime != "" {
		t.ArrivalTime = p.ArrivalTime
	}
	if p.DepartureTime != "" {
		t.DepartureTime = p.DepartureTime
	}
}

// TrainDetail is a train with its station ids resolved to name/code pairs
type TrainDetail struct {
	ID            primitive.ObjectID `json:"_id"`
	TrainName     string             `json:"trainName"`
	TrainNumber   string             `json:"trainNumber"`
	Source        string             `json:"source"`
	Destination   string             `json:"destination"`
	ArrivalTime   string             `json:"arrivalTime"`
	DepartureTime string             `json:"departureTime"`
	Stations      []StationSummary   `json:"stationIds"`
	AudioFilePath string             `json:"audioFilePath,omitempty"`
}
