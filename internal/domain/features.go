package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrInvalidInput marks a request body that is not well-formed, e.g.
	// malformed JSON or a non-numeric reading.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingField marks a request that lacks a required field.
	ErrMissingField = errors.New("missing required field")
)

// Defaults substituted for readings absent from a prediction request.
const (
	DefaultPH             = 7.0
	DefaultOrganicCarbon  = 0.5
	DefaultNitrogen       = 100.0
	DefaultPhosphorus     = 20.0
	DefaultPotassium      = 150.0
	DefaultAvgTemperature = 25.0
	DefaultAvgRainfall    = 800.0
	DefaultAvgHumidity    = 60.0
)

// FeatureInput is the fully populated observation the engine scores.
type FeatureInput struct {
	State          string
	District       string
	Season         Season
	SoilPH         float64
	OrganicCarbon  float64
	Nitrogen       float64
	Phosphorus     float64
	Potassium      float64
	AvgTemperature float64 // °C
	AvgRainfall    float64 // mm
	AvgHumidity    float64 // %
}

// SoilSnapshot is the soil half of an environmental snapshot.
type SoilSnapshot struct {
	PH            float64 `json:"ph" bson:"ph"`
	OrganicCarbon float64 `json:"organicCarbon" bson:"organicCarbon"`
	Nitrogen      float64 `json:"nitrogen" bson:"nitrogen"`
	Phosphorus    float64 `json:"phosphorus" bson:"phosphorus"`
	Potassium     float64 `json:"potassium" bson:"potassium"`
}

// WeatherSnapshot is the weather half of an environmental snapshot.
type WeatherSnapshot struct {
	AvgTemperature float64 `json:"avgTemperature" bson:"avgTemperature"`
	AvgRainfall    float64 `json:"avgRainfall" bson:"avgRainfall"`
	AvgHumidity    float64 `json:"avgHumidity" bson:"avgHumidity"`
}

// EnvironmentalSnapshot records the readings a recommendation was scored against.
type EnvironmentalSnapshot struct {
	Soil    SoilSnapshot    `json:"soil" bson:"soil"`
	Weather WeatherSnapshot `json:"weather" bson:"weather"`
}

// NewFeatureInput flattens a snapshot into engine input.
func NewFeatureInput(state, district string, season Season, snap EnvironmentalSnapshot) FeatureInput {
	return FeatureInput{
		State:          state,
		District:       district,
		Season:         season,
		SoilPH:         snap.Soil.PH,
		OrganicCarbon:  snap.Soil.OrganicCarbon,
		Nitrogen:       snap.Soil.Nitrogen,
		Phosphorus:     snap.Soil.Phosphorus,
		Potassium:      snap.Soil.Potassium,
		AvgTemperature: snap.Weather.AvgTemperature,
		AvgRainfall:    snap.Weather.AvgRainfall,
		AvgHumidity:    snap.Weather.AvgHumidity,
	}
}

// SoilReadings is the soil bundle of a prediction request. Nil fields are
// replaced by defaults.
type SoilReadings struct {
	PH            *float64 `json:"ph,omitempty"`
	OrganicCarbon *float64 `json:"organicCarbon,omitempty"`
	Nitrogen      *float64 `json:"nitrogen,omitempty"`
	Phosphorus    *float64 `json:"phosphorus,omitempty"`
	Potassium     *float64 `json:"potassium,omitempty"`
}

// WeatherReadings is the weather bundle of a prediction request.
type WeatherReadings struct {
	AvgTemperature *float64 `json:"avgTemperature,omitempty"`
	AvgRainfall    *float64 `json:"avgRainfall,omitempty"`
	AvgHumidity    *float64 `json:"avgHumidity,omitempty"`
}

// PredictionRequest is the wire shape accepted by the HTTP predict endpoint
// and the district-features topic.
type PredictionRequest struct {
	State    string          `json:"state"`
	District string          `json:"district"`
	Season   string          `json:"season"`
	Soil     SoilReadings    `json:"soil"`
	Weather  WeatherReadings `json:"weather"`
}

// ParsePredictionRequest decodes and validates a prediction request body.
// Malformed JSON, data after the object and non-numeric readings wrap
// ErrInvalidInput; absent
// state, district or season wrap ErrMissingField. An unrecognized season
// is accepted and scores every crop as zero.
func ParsePredictionRequest(data []byte) (PredictionRequest, error) {
	var req PredictionRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&req); err != nil {
		return PredictionRequest{}, fmt.Errorf("%w: %w", ErrInvalidInput, describeDecodeError(err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return PredictionRequest{}, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidInput)
	}
	if err := req.Validate(); err != nil {
		return PredictionRequest{}, err
	}
	return req, nil
}

// Validate checks that the identifying fields are present.
func (r PredictionRequest) Validate() error {
	return requireFields(r.State, r.District, r.Season)
}

// Snapshot returns the request's readings with defaults substituted.
func (r PredictionRequest) Snapshot() EnvironmentalSnapshot {
	return EnvironmentalSnapshot{
		Soil: SoilSnapshot{
			PH:            valueOr(r.Soil.PH, DefaultPH),
			OrganicCarbon: valueOr(r.Soil.OrganicCarbon, DefaultOrganicCarbon),
			Nitrogen:      valueOr(r.Soil.Nitrogen, DefaultNitrogen),
			Phosphorus:    valueOr(r.Soil.Phosphorus, DefaultPhosphorus),
			Potassium:     valueOr(r.Soil.Potassium, DefaultPotassium),
		},
		Weather: WeatherSnapshot{
			AvgTemperature: valueOr(r.Weather.AvgTemperature, DefaultAvgTemperature),
			AvgRainfall:    valueOr(r.Weather.AvgRainfall, DefaultAvgRainfall),
			AvgHumidity:    valueOr(r.Weather.AvgHumidity, DefaultAvgHumidity),
		},
	}
}

// Features converts the request into engine input.
func (r PredictionRequest) Features() FeatureInput {
	return NewFeatureInput(r.State, r.District, Season(r.Season), r.Snapshot())
}

// AdviseRequest asks for recommendations for a stored district.
type AdviseRequest struct {
	State           string `json:"state"`
	District        string `json:"district"`
	Season          string `json:"season"`
	RealtimeWeather bool   `json:"realtimeWeather,omitempty"`
}

// Validate checks that the identifying fields are present.
func (r AdviseRequest) Validate() error {
	return requireFields(r.State, r.District, r.Season)
}

func requireFields(state, district, season string) error {
	var missing []string
	if strings.TrimSpace(state) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(district) == "" {
		missing = append(missing, "district")
	}
	if strings.TrimSpace(season) == "" {
		missing = append(missing, "season")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func describeDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("field %q must be a %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return err
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
