package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	"github.com/couchcryptid/agri-advisor-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationTransformer_WithMockFeatureData(t *testing.T) {
	freezeClock(t)
	catalog := domain.DefaultCatalog()
	transformer := pipeline.NewTransformer(domain.NewEngine(catalog), discardLogger())

	requests := readMockFeatures(t)
	require.Len(t, requests, 9)

	for i, req := range requests {
		t.Run(req.District, func(t *testing.T) {
			payload, err := json.Marshal(req)
			require.NoError(t, err)

			out, err := transformer.Transform(context.Background(), domain.RawEvent{
				Value:  payload,
				Topic:  "district-features",
				Offset: int64(i),
			})
			require.NoError(t, err)

			assert.Equal(t, domain.ResultKey(req.State, req.District, req.Season), string(out.Key))
			assert.Equal(t, req.Season, out.Headers["season"])
			assert.Equal(t, "2025-06-01T06:30:00Z", out.Headers["generated_at"])

			var result domain.RecommendationResult
			require.NoError(t, json.Unmarshal(out.Value, &result))
			assert.Equal(t, req.Snapshot(), result.Snapshot)
			assert.LessOrEqual(t, len(result.Recommendations), domain.DefaultMaxResults)

			for j, rec := range result.Recommendations {
				profile, ok := catalog.Lookup(rec.CropName)
				require.True(t, ok, rec.CropName)
				assert.True(t, profile.GrownIn(domain.Season(req.Season)), "%s is not a %s crop", rec.CropName, req.Season)
				assert.GreaterOrEqual(t, rec.SuitabilityScore, domain.DefaultMinScore)
				assert.LessOrEqual(t, rec.SuitabilityScore, 100.0)
				if j > 0 {
					assert.LessOrEqual(t, rec.SuitabilityScore, result.Recommendations[j-1].SuitabilityScore)
				}
			}
		})
	}
}

func TestRecommendationTransformer_ZaidDistrictHasNoCrops(t *testing.T) {
	transformer := pipeline.NewTransformer(domain.NewEngine(domain.DefaultCatalog()), discardLogger())

	var jaisalmer domain.PredictionRequest
	for _, req := range readMockFeatures(t) {
		if req.District == "Jaisalmer" {
			jaisalmer = req
		}
	}
	require.Equal(t, "Zaid", jaisalmer.Season)

	payload, err := json.Marshal(jaisalmer)
	require.NoError(t, err)
	out, err := transformer.Transform(context.Background(), domain.RawEvent{Value: payload})
	require.NoError(t, err)
	assert.Contains(t, string(out.Value), `"recommendations":[]`)
}

func readMockFeatures(t *testing.T) []domain.PredictionRequest {
	t.Helper()

	path := filepath.Join("..", "..", "data", "mock", "district_features.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var requests []domain.PredictionRequest
	require.NoError(t, json.Unmarshal(data, &requests))
	return requests
}
