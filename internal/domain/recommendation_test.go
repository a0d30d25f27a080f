package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateYield(t *testing.T) {
	rice := CropProfile{Name: "Rice", BaseYield: 3000}

	tests := []struct {
		name  string
		score float64
		want  YieldEstimate
	}{
		{"perfect", 100, YieldEstimate{Min: 2400, Max: 3600, Expected: 3000}},
		{"zero", 0, YieldEstimate{}},
		{"fractional", 87.5, YieldEstimate{Min: 2100, Max: 3150, Expected: 2625}},
		{"rounds to cents", 33.333, YieldEstimate{Min: 799.99, Max: 1199.99, Expected: 999.99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateYield(rice, tt.score)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
			assert.InDelta(t, tt.want.Expected, got.Expected, 1e-9)
		})
	}
}

func TestEstimateYield_BandOrdering(t *testing.T) {
	for _, crop := range DefaultCatalog().Crops() {
		for score := 0.0; score <= 100; score += 2.5 {
			y := EstimateYield(crop, score)
			assert.LessOrEqual(t, y.Min, y.Expected, crop.Name)
			assert.LessOrEqual(t, y.Expected, y.Max, crop.Name)
			assert.InDelta(t, crop.BaseYield*score/100, y.Expected, 0.0051, crop.Name)
		}
	}
}

func TestExplain_Tiers(t *testing.T) {
	rice := riceProfile(t)
	f := riceOptimum()

	tests := []struct {
		score float64
		want  string
	}{
		{100, "Rice is highly suitable for your location."},
		{80, "Rice is highly suitable for your location."},
		{79.9, "Rice is suitable for your location."},
		{60, "Rice is suitable for your location."},
		{59.9, "Rice is moderately suitable for your location."},
		{30, "Rice is moderately suitable for your location."},
	}
	for _, tt := range tests {
		got := Explain("Rice", rice, f, tt.score)
		assert.True(t, strings.HasPrefix(got, tt.want), "score %.1f: %q", tt.score, got)
	}
}

func TestExplain_AllConditions(t *testing.T) {
	got := Explain("Rice", riceProfile(t), riceOptimum(), 100)

	assert.Equal(t,
		"Rice is highly suitable for your location. "+
			"It is ideal for Kharif season. "+
			"Temperature conditions (27.5°C) are optimal. "+
			"Rainfall (1750mm) is within ideal range. "+
			"Soil pH (6.2) is suitable.",
		got)
}

func TestExplain_OmitsUnmetConditions(t *testing.T) {
	f := riceOptimum()
	f.Season = Rabi
	f.AvgTemperature = 40
	f.AvgRainfall = 200
	f.SoilPH = 8

	got := Explain("Rice", riceProfile(t), f, 0)

	assert.Equal(t, "Rice is moderately suitable for your location.", got)
}

func TestExplain_OnlyRainfallAndPH(t *testing.T) {
	f := riceOptimum()
	f.Season = Rabi
	f.AvgTemperature = 12

	got := Explain("Rice", riceProfile(t), f, 65)

	assert.Equal(t,
		"Rice is suitable for your location. Rainfall (1750mm) is within ideal range. Soil pH (6.2) is suitable.",
		got)
}

func TestEnvironmentalFactors(t *testing.T) {
	rice := riceProfile(t)

	tests := []struct {
		name   string
		modify func(*FeatureInput)
		want   Factors
	}{
		{"all in range", func(*FeatureInput) {}, Factors{SoilMatch: 100, WeatherMatch: 100, HistoricalYield: 70}},
		{"pH out", func(f *FeatureInput) { f.SoilPH = 4 }, Factors{SoilMatch: 50, WeatherMatch: 100, HistoricalYield: 70}},
		{"nitrogen out", func(f *FeatureInput) { f.Nitrogen = 10 }, Factors{SoilMatch: 80, WeatherMatch: 100, HistoricalYield: 70}},
		{"phosphorus and potassium out", func(f *FeatureInput) { f.Phosphorus, f.Potassium = 0, 0 }, Factors{SoilMatch: 70, WeatherMatch: 100, HistoricalYield: 70}},
		{"temperature out", func(f *FeatureInput) { f.AvgTemperature = 50 }, Factors{SoilMatch: 100, WeatherMatch: 50, HistoricalYield: 70}},
		{"nothing in range", func(f *FeatureInput) {
			*f = FeatureInput{Season: Kharif}
		}, Factors{SoilMatch: 0, WeatherMatch: 0, HistoricalYield: 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := riceOptimum()
			tt.modify(&f)
			assert.Equal(t, tt.want, EnvironmentalFactors(rice, f))
		})
	}
}

func TestEnvironmentalFactors_IgnoresSeason(t *testing.T) {
	f := riceOptimum()
	f.Season = Rabi

	got := EnvironmentalFactors(riceProfile(t), f)

	assert.Equal(t, 100.0, got.SoilMatch)
	assert.Equal(t, 100.0, got.WeatherMatch)
}
