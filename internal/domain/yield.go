package domain

const (
	yieldLowFactor  = 0.8
	yieldHighFactor = 1.2
)

// YieldEstimate is a predicted yield band in kg/hectare.
type YieldEstimate struct {
	Min      float64 `json:"min" bson:"min"`
	Max      float64 `json:"max" bson:"max"`
	Expected float64 `json:"expected" bson:"expected"`
}

// EstimateYield scales the crop's base yield by the suitability score and
// brackets it ±20%. Values are rounded to two decimals.
func EstimateYield(p CropProfile, score float64) YieldEstimate {
	expected := p.BaseYield * (clamp(score, 0, maxScore) / maxScore)
	return YieldEstimate{
		Min:      round(expected*yieldLowFactor, 2),
		Max:      round(expected*yieldHighFactor, 2),
		Expected: round(expected, 2),
	}
}
