package domain

// Factor weights. Soil weights sum to 100, as do weather weights.
const (
	soilPHWeight         = 50.0
	soilNitrogenWeight   = 20.0
	soilPhosphorusWeight = 15.0
	soilPotassiumWeight  = 15.0

	weatherTemperatureWeight = 50.0
	weatherRainfallWeight    = 50.0

	// HistoricalYieldPlaceholder stands in for the historical-yield factor.
	// It is not derived from district crop history yet.
	HistoricalYieldPlaceholder = 70.0
)

// Factors breaks a recommendation down into percentage-like matches.
type Factors struct {
	SoilMatch       float64 `json:"soilMatch" bson:"soilMatch"`
	WeatherMatch    float64 `json:"weatherMatch" bson:"weatherMatch"`
	HistoricalYield float64 `json:"historicalYield" bson:"historicalYield"`
}

// EnvironmentalFactors summarizes how many soil and weather readings fall
// inside the crop's ranges.
func EnvironmentalFactors(p CropProfile, f FeatureInput) Factors {
	soil := p.PH.Bonus(f.SoilPH, soilPHWeight) +
		p.Nitrogen.Bonus(f.Nitrogen, soilNitrogenWeight) +
		p.Phosphorus.Bonus(f.Phosphorus, soilPhosphorusWeight) +
		p.Potassium.Bonus(f.Potassium, soilPotassiumWeight)

	weather := p.Temperature.Bonus(f.AvgTemperature, weatherTemperatureWeight) +
		p.Rainfall.Bonus(f.AvgRainfall, weatherRainfallWeight)

	return Factors{
		SoilMatch:       round(clamp(soil, 0, 100), 1),
		WeatherMatch:    round(clamp(weather, 0, 100), 1),
		HistoricalYield: HistoricalYieldPlaceholder,
	}
}
