package domain

// Scoring weights. Out-of-range penalties always exceed the largest in-range
// deviation penalty (weight/2) for the same dimension.
const (
	maxScore = 100.0

	phOutOfRangePenalty          = 20.0
	temperatureOutOfRangePenalty = 25.0
	rainfallOutOfRangePenalty    = 20.0

	phDeviationWeight          = 10.0
	temperatureDeviationWeight = 15.0
	rainfallDeviationWeight    = 10.0

	nutrientBonus = 5.0
)

// Score rates how well the observed features suit a crop, in [0, 100].
// A season the crop is not sown in scores 0 regardless of other readings.
func Score(p CropProfile, f FeatureInput) float64 {
	if !p.GrownIn(f.Season) {
		return 0
	}

	score := maxScore
	score -= p.PH.Penalty(f.SoilPH, phDeviationWeight, phOutOfRangePenalty)
	score -= p.Temperature.Penalty(f.AvgTemperature, temperatureDeviationWeight, temperatureOutOfRangePenalty)
	score -= p.Rainfall.Penalty(f.AvgRainfall, rainfallDeviationWeight, rainfallOutOfRangePenalty)

	score += p.Nitrogen.Bonus(f.Nitrogen, nutrientBonus)
	score += p.Phosphorus.Bonus(f.Phosphorus, nutrientBonus)
	score += p.Potassium.Bonus(f.Potassium, nutrientBonus)

	return clamp(score, 0, maxScore)
}
