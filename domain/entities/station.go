package entities

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satriahrh/stationcast/domain"
)

// StationStatus represents the operating status of a station
type StationStatus string

const (
	StationStatusOperational    StationStatus = "Operational"
	StationStatusNonOperational StationStatus = "Non-Operational"
)

// Valid reports whether the status is one of the known values
func (s StationStatus) Valid() bool {
	return s == StationStatusOperational || s == StationStatusNonOperational
}

// TrainRef is the denormalized train number stored on a station
type TrainRef struct {
	TrainNumber string `json:"trainNumber" bson:"trainNumber"`
}

// Station represents a physical stop identified by a unique code
type Station struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	StationName string             `json:"stationName" bson:"stationName"`
	StationCode string             `json:"stationCode" bson:"stationCode"`
	Status      StationStatus      `json:"status" bson:"status"`
	Trains      []TrainRef         `json:"trains" bson:"trains"`
}

// NewStation creates a station with the default status applied and the
// train list snapshotted from the given numbers, in order
func NewStation(name, code string, status StationStatus, trainNumbers []string) *Station {
	if status == "" {
		status = StationStatusOperational
	}

	refs := make([]TrainRef, 0, len(trainNumbers))
	for _, number := range trainNumbers {
		refs = append(refs, TrainRef{TrainNumber: number})
	}

	return &Station{
		StationName: name,
		StationCode: code,
		Status:      status,
		Trains:      refs,
	}
}

// TrainNumbers returns the stored train numbers in order
func (s *Station) TrainNumbers() []string {
	numbers := make([]string, 0, len(s.Trains))
	for _, ref := range s.Trains {
		numbers = append(numbers, ref.TrainNumber)
	}
	return numbers
}

// Validate validates the station data
func (s *Station) Validate() error {
	if strings.TrimSpace(s.StationName) == "" {
		return domain.NewValidationError("stationName", "is required")
	}
	if strings.TrimSpace(s.StationCode) == "" {
		return domain.NewValidationError("stationCode", "is required")
	}
	if !s.Status.Valid() {
		return domain.NewValidationError("status", "must be one of Operational, Non-Operational")
	}
	return nil
}

// StationPatch carries the fields of a station update; nil fields are left untouched
type StationPatch struct {
	StationName *string        `json:"stationName,omitempty" bson:"stationName,omitempty"`
	StationCode *string        `json:"stationCode,omitempty" bson:"stationCode,omitempty"`
	Status      *StationStatus `json:"status,omitempty" bson:"status,omitempty"`
	Trains      *[]TrainRef    `json:"trains,omitempty" bson:"trains,omitempty"`
}

// IsEmpty reports whether the patch sets nothing
func (p StationPatch) IsEmpty() bool {
	return p.StationName == nil && p.StationCode == nil && p.Status == nil && p.Trains == nil
}

// Validate checks present fields against the station schema
func (p StationPatch) Validate() error {
	if p.StationName != nil && strings.TrimSpace(*p.StationName) == "" {
		return domain.NewValidationError("stationName", "is required")
	}
	if p.StationCode != nil && strings.TrimSpace(*p.StationCode) == "" {
		return domain.NewValidationError("stationCode", "is required")
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.NewValidationError("status", "must be one of Operational, Non-Operational")
	}
	return nil
}

// Apply copies the present fields onto the station
func (p StationPatch) Apply(s *Station) {
	if p.StationName != nil {
		s.StationName = *p.StationName
	}
	if p.StationCode != nil {
		s.StationCode = *p.StationCode
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Trains != nil {
		s.Trains = append([]TrainRef(nil), (*p.Trains)...)
	}
}

// StationSummary is the reduced station view embedded in train responses
type StationSummary struct {
	ID          primitive.ObjectID `json:"_id"`
	StationName string             `json:"stationName"`
	StationCode string             `json:"stationCode"`
}

// StationDetail is a station with its train numbers resolved to full train documents
type StationDetail struct {
	ID          primitive.ObjectID `json:"_id"`
	StationName string             `json:"stationName"`
	StationCode string             `json:"stationCode"`
	Status      StationStatus      `json:"status"`
	Trains      []*Train           `json:"trains"`
}
