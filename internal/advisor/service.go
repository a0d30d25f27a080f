// Package advisor serves crop recommendations for ad-hoc readings and for
// districts whose aggregated soil and weather data has been stored.
package advisor

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	"github.com/couchcryptid/agri-advisor-service/internal/observability"
	"github.com/google/uuid"
)

// Store loads district records and keeps the recommendation history.
type Store interface {
	FindDistrict(ctx context.Context, state, district string) (domain.DistrictRecord, error)
	ListDistricts(ctx context.Context, state string) ([]string, error)
	SaveRecommendation(ctx context.Context, rec domain.RecommendationRecord) error
	ListRecommendations(ctx context.Context, state, district string, limit int) ([]domain.RecommendationRecord, error)
	GetRecommendation(ctx context.Context, id string) (domain.RecommendationRecord, error)
	CheckReadiness(ctx context.Context) error
}

// Advice is the outcome of a district recommendation run.
type Advice struct {
	ID              string                       `json:"recommendationId"`
	Recommendations []domain.Recommendation      `json:"recommendations"`
	Snapshot        domain.EnvironmentalSnapshot `json:"environmentalSnapshot"`
	WeatherSource   string                       `json:"weatherSource"`
}

// Service coordinates the engine, storage and live weather.
type Service struct {
	engine  *domain.Engine
	store   Store
	weather domain.WeatherProvider
	metrics *observability.Metrics
	logger  *slog.Logger
	newID   func() string
}

// New creates a Service. store and weather may be nil: without a store the
// district operations return domain.ErrStorageUnavailable, and without a
// weather provider real-time requests use stored weather.
func New(engine *domain.Engine, store Store, weather domain.WeatherProvider, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		engine:  engine,
		store:   store,
		weather: weather,
		metrics: metrics,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Predict parses and scores a stateless prediction request body.
func (s *Service) Predict(_ context.Context, body []byte) ([]domain.Recommendation, error) {
	req, err := domain.ParsePredictionRequest(body)
	s.metrics.RecommendationRequests.WithLabelValues("predict", outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return s.recommend(req.Features()), nil
}

// Advise recommends crops for a stored district and records the run.
func (s *Service) Advise(ctx context.Context, req domain.AdviseRequest) (Advice, error) {
	advice, err := s.advise(ctx, req)
	s.metrics.RecommendationRequests.WithLabelValues("advise", outcome(err)).Inc()
	return advice, err
}

func (s *Service) advise(ctx context.Context, req domain.AdviseRequest) (Advice, error) {
	if err := req.Validate(); err != nil {
		return Advice{}, err
	}
	if s.store == nil {
		return Advice{}, domain.ErrStorageUnavailable
	}

	district, err := s.store.FindDistrict(ctx, req.State, req.District)
	if err != nil {
		return Advice{}, err
	}

	snap := district.Snapshot()
	source := domain.WeatherSourceStored
	if req.RealtimeWeather {
		snap.Weather, source = domain.RefreshWeather(ctx, district, snap.Weather, s.weather, s.logger)
	}

	recs := s.recommend(domain.NewFeatureInput(req.State, req.District, domain.Season(req.Season), snap))

	rec := domain.NewRecommendationRecord(s.newID(), req, snap, source, recs)
	if err := s.store.SaveRecommendation(ctx, rec); err != nil {
		return Advice{}, err
	}

	s.logger.Info("recommendation generated",
		"id", rec.ID,
		"state", req.State,
		"district", req.District,
		"season", req.Season,
		"weather_source", source,
		"crops", len(recs),
	)
	return Advice{
		ID:              rec.ID,
		Recommendations: recs,
		Snapshot:        snap,
		WeatherSource:   source,
	}, nil
}

// History lists past runs for a district, newest first. The limit is
// normalized with domain.HistoryLimit before it reaches the store.
func (s *Service) History(ctx context.Context, state, district string, limit int) ([]domain.RecommendationRecord, error) {
	if s.store == nil {
		return nil, domain.ErrStorageUnavailable
	}
	return s.store.ListRecommendations(ctx, state, district, domain.HistoryLimit(limit))
}

// Get loads one past run.
func (s *Service) Get(ctx context.Context, id string) (domain.RecommendationRecord, error) {
	if s.store == nil {
		return domain.RecommendationRecord{}, domain.ErrStorageUnavailable
	}
	return s.store.GetRecommendation(ctx, id)
}

// Districts lists the states with stored data, or the districts of one state.
func (s *Service) Districts(ctx context.Context, state string) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrStorageUnavailable
	}
	return s.store.ListDistricts(ctx, state)
}

// District loads the aggregated record for one district.
func (s *Service) District(ctx context.Context, state, district string) (domain.DistrictRecord, error) {
	if s.store == nil {
		return domain.DistrictRecord{}, domain.ErrStorageUnavailable
	}
	return s.store.FindDistrict(ctx, state, district)
}

// Crop returns one catalog profile by name.
func (s *Service) Crop(name string) (domain.CropProfile, error) {
	p, ok := s.engine.Catalog().Lookup(name)
	if !ok {
		return domain.CropProfile{}, fmt.Errorf("%w: %s", domain.ErrCropNotFound, name)
	}
	return p, nil
}

// Crops lists catalog profiles sorted by name. A non-empty season keeps only
// crops grown in it.
func (s *Service) Crops(season string) []domain.CropProfile {
	crops := s.engine.Catalog().Crops()
	if season != "" {
		crops = slices.DeleteFunc(crops, func(p domain.CropProfile) bool {
			return !p.GrownIn(domain.Season(season))
		})
	}
	slices.SortFunc(crops, func(a, b domain.CropProfile) int { return cmp.Compare(a.Name, b.Name) })
	return crops
}

// CheckReadiness reports the store's health. A service without a store is
// always ready.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.CheckReadiness(ctx)
}

func (s *Service) recommend(f domain.FeatureInput) []domain.Recommendation {
	start := time.Now()
	recs := s.engine.Recommend(f)
	s.metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	s.metrics.CropsReturned.Observe(float64(len(recs)))
	return recs
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrMissingField), errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrDistrictNotFound):
		return "not_found"
	default:
		return "error"
	}
}
