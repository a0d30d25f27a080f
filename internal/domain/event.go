package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from the district-features topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the recommendations topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// RecommendationResult is the streamed answer to one district feature record.
type RecommendationResult struct {
	State           string                `json:"state"`
	District        string                `json:"district"`
	Season          string                `json:"season"`
	Recommendations []Recommendation      `json:"recommendations"`
	Snapshot        EnvironmentalSnapshot `json:"environmentalSnapshot"`
	GeneratedAt     time.Time             `json:"generatedAt"`
}

// NewRecommendationResult stamps a scored request with the current time.
func NewRecommendationResult(req PredictionRequest, recs []Recommendation) RecommendationResult {
	return RecommendationResult{
		State:           req.State,
		District:        req.District,
		Season:          req.Season,
		Recommendations: recs,
		Snapshot:        req.Snapshot(),
		GeneratedAt:     clock.Now().UTC(),
	}
}

// ResultKey identifies the district and season a result belongs to. Results
// for the same key land on the same partition, so consumers see them in order.
func ResultKey(state, district, season string) string {
	return state + "|" + district + "|" + season
}

// SerializeResult marshals a result into an OutputEvent with routing headers.
func SerializeResult(result RecommendationResult) (OutputEvent, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize recommendation result: %w", err)
	}
	return OutputEvent{
		Key:   []byte(ResultKey(result.State, result.District, result.Season)),
		Value: data,
		Headers: map[string]string{
			"season":       result.Season,
			"generated_at": result.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}

// Weather sources recorded on stored recommendations.
const (
	WeatherSourceStored   = "stored"   // district aggregates
	WeatherSourceRealtime = "realtime" // live forecast
	WeatherSourceFallback = "fallback" // live forecast requested but failed
)

var (
	// ErrRecommendationNotFound is returned when a stored recommendation ID is unknown.
	ErrRecommendationNotFound = errors.New("recommendation not found")

	// ErrStorageUnavailable is returned by operations that need persistence
	// when the service runs without a store.
	ErrStorageUnavailable = errors.New("storage is not configured")
)

// History page sizes.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryLimit normalizes a requested history page size: zero or negative
// selects DefaultHistoryLimit and anything above MaxHistoryLimit is capped.
func HistoryLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultHistoryLimit
	case n > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return n
	}
}

// RecommendationRecord is a persisted recommendation run for a district.
type RecommendationRecord struct {
	ID              string                `json:"id" bson:"_id"`
	State           string                `json:"state" bson:"state"`
	District        string                `json:"district" bson:"district"`
	Season          string                `json:"season" bson:"season"`
	Recommendations []Recommendation      `json:"recommendations" bson:"recommendations"`
	Snapshot        EnvironmentalSnapshot `json:"environmentalSnapshot" bson:"environmentalSnapshot"`
	WeatherSource   string                `json:"weatherSource" bson:"weatherSource"`
	CreatedAt       time.Time             `json:"createdAt" bson:"createdAt"`
}

// NewRecommendationRecord assembles a history entry stamped with the current time.
func NewRecommendationRecord(id string, req AdviseRequest, snap EnvironmentalSnapshot, weatherSource string, recs []Recommendation) RecommendationRecord {
	return RecommendationRecord{
		ID:              id,
		State:           req.State,
		District:        req.District,
		Season:          req.Season,
		Recommendations: recs,
		Snapshot:        snap,
		WeatherSource:   weatherSource,
		CreatedAt:       clock.Now().UTC(),
	}
}
