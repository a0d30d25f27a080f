package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riceProfile(t *testing.T) CropProfile {
	t.Helper()
	p, ok := DefaultCatalog().Lookup("Rice")
	require.True(t, ok)
	return p
}

// riceOptimum sits at the midpoint of every Rice range with all nutrients in range.
func riceOptimum() FeatureInput {
	return FeatureInput{
		State:          "West Bengal",
		District:       "Bardhaman",
		Season:         Kharif,
		SoilPH:         6.25,
		AvgTemperature: 27.5,
		AvgRainfall:    1750,
		Nitrogen:       100,
		Phosphorus:     20,
		Potassium:      150,
	}
}

func TestRange(t *testing.T) {
	r := Range{Min: 20, Max: 35}

	t.Run("inclusive bounds", func(t *testing.T) {
		assert.True(t, r.Contains(20))
		assert.True(t, r.Contains(35))
		assert.False(t, r.Contains(19.999))
		assert.False(t, r.Contains(35.001))
	})

	t.Run("penalty", func(t *testing.T) {
		tests := []struct {
			name  string
			value float64
			want  float64
		}{
			{"midpoint", 27.5, 0},
			{"lower bound", 20, 7.5},
			{"upper bound", 35, 7.5},
			{"quarter width from midpoint", 31.25, 3.75},
			{"below range", 10, 25},
			{"above range", 40, 25},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.InDelta(t, tt.want, r.Penalty(tt.value, 15, 25), 1e-9)
			})
		}
	})

	t.Run("degenerate range", func(t *testing.T) {
		point := Range{Min: 5, Max: 5}
		assert.Equal(t, 0.0, point.Penalty(5, 10, 20))
		assert.Equal(t, 20.0, point.Penalty(6, 10, 20))
	})

	t.Run("bonus", func(t *testing.T) {
		assert.Equal(t, 5.0, r.Bonus(20, 5))
		assert.Equal(t, 0.0, r.Bonus(50, 5))
	})
}

func TestScore_OptimumClampsTo100(t *testing.T) {
	assert.Equal(t, 100.0, Score(riceProfile(t), riceOptimum()))
}

func TestScore_SeasonGate(t *testing.T) {
	f := riceOptimum()

	for _, season := range []Season{Rabi, Zaid, "Monsoon", ""} {
		f.Season = season
		assert.Equal(t, 0.0, Score(riceProfile(t), f), "season %q", season)
	}
}

func TestScore_Penalties(t *testing.T) {
	rice := riceProfile(t)

	tests := []struct {
		name   string
		modify func(*FeatureInput)
		want   float64
	}{
		{
			name:   "no nutrient bonuses at optimum",
			modify: func(f *FeatureInput) { f.Nitrogen, f.Phosphorus, f.Potassium = 0, 0, 0 },
			want:   100,
		},
		{
			name: "pH out of range costs 20",
			modify: func(f *FeatureInput) {
				f.SoilPH = 8.5
				f.Nitrogen, f.Phosphorus, f.Potassium = 0, 0, 0
			},
			want: 80,
		},
		{
			name: "temperature out of range costs 25",
			modify: func(f *FeatureInput) {
				f.AvgTemperature = 40
				f.Nitrogen, f.Phosphorus, f.Potassium = 0, 0, 0
			},
			want: 75,
		},
		{
			name: "rainfall out of range costs 20",
			modify: func(f *FeatureInput) {
				f.AvgRainfall = 300
				f.Nitrogen, f.Phosphorus, f.Potassium = 0, 0, 0
			},
			want: 80,
		},
		{
			name: "every dimension at a bound",
			modify: func(f *FeatureInput) {
				f.SoilPH = 5.5
				f.AvgTemperature = 35
				f.AvgRainfall = 1000
				f.Nitrogen, f.Phosphorus, f.Potassium = 0, 0, 0
			},
			want: 100 - 5 - 7.5 - 5,
		},
		{
			name: "everything out of range, nutrients in range",
			modify: func(f *FeatureInput) {
				f.SoilPH = 9
				f.AvgTemperature = -10
				f.AvgRainfall = 100
			},
			want: 100 - 20 - 25 - 20 + 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := riceOptimum()
			tt.modify(&f)
			assert.InDelta(t, tt.want, Score(rice, f), 1e-9)
		})
	}
}

func TestScore_CloserToMidpointNeverScoresLower(t *testing.T) {
	rice := riceProfile(t)
	f := riceOptimum()

	prev := Score(rice, f)
	for temp := 27.5; temp <= 35; temp += 0.5 {
		f.AvgTemperature = temp
		got := Score(rice, f)
		assert.LessOrEqual(t, got, prev, "temperature %.1f", temp)
		prev = got
	}
}

func TestScore_OutOfRangeAlwaysWorseThanInRange(t *testing.T) {
	rice := riceProfile(t)
	f := riceOptimum()
	f.Nitrogen, f.Phosphorus, f.Potassium = 0, 0, 0

	f.SoilPH = 7.0
	worstInRange := Score(rice, f)
	f.SoilPH = 7.01
	outOfRange := Score(rice, f)

	assert.Less(t, outOfRange, worstInRange)
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	catalog := DefaultCatalog()
	readings := []float64{-50, -10, 0, 0.5, 5, 6.5, 7, 15, 25, 30, 45, 100, 150, 300, 800, 1750, 5000}

	for _, crop := range catalog.Crops() {
		for _, season := range Seasons {
			for _, v := range readings {
				f := FeatureInput{
					Season:         season,
					SoilPH:         v,
					AvgTemperature: v,
					AvgRainfall:    v,
					Nitrogen:       v,
					Phosphorus:     v,
					Potassium:      v,
				}
				s := Score(crop, f)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 100.0)
			}
		}
	}
}
