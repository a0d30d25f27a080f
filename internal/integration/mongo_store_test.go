//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/agri-advisor-service/internal/adapter/mongo"
	"github.com/couchcryptid/agri-advisor-service/internal/advisor"
	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	"github.com/couchcryptid/agri-advisor-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectStore(ctx context.Context, t *testing.T) *mongo.Store {
	t.Helper()
	store, err := mongo.Connect(ctx, startMongo(ctx, t), "agri_advisor_test", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func mergedFixtures() []domain.DistrictRecord {
	return domain.MergeDistrictData(
		[]domain.SoilSourceRecord{
			{State: "Karnataka", District: "Mandya", SoilData: domain.SoilData{
				PH: &domain.Stat{Mean: 6.3}, Nitrogen: &domain.Stat{Mean: 110},
				Phosphorus: &domain.Stat{Mean: 21}, Potassium: &domain.Stat{Mean: 160},
			}},
			{State: "Punjab", District: "Ludhiana", SoilData: domain.SoilData{PH: &domain.Stat{Mean: 7.6}}},
		},
		[]domain.WeatherSourceRecord{
			{State: "Karnataka", District: "Mandya", WeatherData: domain.WeatherData{
				AvgTemperature: &domain.Stat{Mean: 26.5}, AvgRainfall: &domain.Stat{Mean: 1600},
			}},
		},
		[]domain.CropSourceRecord{
			{State: "Karnataka", District: "Mandya", CropHistory: []domain.CropYield{
				{Crop: "Rice", Season: "Kharif", Year: 2022, Yield: 3120, Area: 5400},
			}},
		},
	)
}

func TestMongoStore_DistrictsAndHistory(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := connectStore(ctx, t)
	require.NoError(t, store.CheckReadiness(ctx))

	n, err := store.UpsertDistricts(ctx, mergedFixtures())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Upserting again replaces rather than duplicates.
	n, err = store.UpsertDistricts(ctx, mergedFixtures())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mandya, err := store.FindDistrict(ctx, "Karnataka", "Mandya")
	require.NoError(t, err)
	assert.Equal(t, 6.3, mandya.Soil.PH.Mean)
	require.Len(t, mandya.CropYieldHistory, 1)
	assert.Equal(t, "Rice", mandya.CropYieldHistory[0].Crop)

	_, err = store.FindDistrict(ctx, "Karnataka", "Hassan")
	require.ErrorIs(t, err, domain.ErrDistrictNotFound)

	states, err := store.ListDistricts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Karnataka", "Punjab"}, states)

	districts, err := store.ListDistricts(ctx, "Punjab")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ludhiana"}, districts)

	none, err := store.ListDistricts(ctx, "Goa")
	require.NoError(t, err)
	assert.Empty(t, none)

	svc := advisor.New(domain.NewEngine(domain.DefaultCatalog()), store, nil,
		observability.NewMetricsForTesting(), discardLogger())

	var ids []string
	for range 3 {
		advice, err := svc.Advise(ctx, domain.AdviseRequest{State: "Karnataka", District: "Mandya", Season: "Kharif"})
		require.NoError(t, err)
		assert.Equal(t, domain.WeatherSourceStored, advice.WeatherSource)
		ids = append(ids, advice.ID)
		time.Sleep(5 * time.Millisecond)
	}

	history, err := svc.History(ctx, "Karnataka", "Mandya", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ids[2], history[0].ID)
	assert.Equal(t, ids[1], history[1].ID)

	all, err := store.ListRecommendations(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	capped, err := store.ListRecommendations(ctx, "", "", 1_000_000_000)
	require.NoError(t, err)
	assert.Len(t, capped, 3)

	got, err := svc.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Mandya", got.District)
	assert.Equal(t, 6.3, got.Snapshot.Soil.PH)
	assert.Equal(t, 0.8, got.Snapshot.Soil.OrganicCarbon, "district fallback")

	_, err = svc.Get(ctx, "no-such-id")
	require.ErrorIs(t, err, domain.ErrRecommendationNotFound)
}
