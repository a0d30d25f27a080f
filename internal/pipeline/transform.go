package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/agri-advisor-service/internal/domain"
)

// RecommendationTransformer scores district feature records with the engine.
type RecommendationTransformer struct {
	engine *domain.Engine
	logger *slog.Logger
}

// NewTransformer creates a RecommendationTransformer.
func NewTransformer(engine *domain.Engine, logger *slog.Logger) *RecommendationTransformer {
	return &RecommendationTransformer{
		engine: engine,
		logger: logger,
	}
}

// Transform parses a PredictionRequest from the message value, ranks the
// catalog against it and serializes the result.
func (t *RecommendationTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParsePredictionRequest(raw.Value)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("offset %d: %w", raw.Offset, err)
	}

	recs := t.engine.Recommend(req.Features())
	t.logger.Debug("scored feature record",
		"state", req.State,
		"district", req.District,
		"season", req.Season,
		"crops", len(recs),
	)
	return domain.SerializeResult(domain.NewRecommendationResult(req, recs))
}
