package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Suitability tiers used in explanations.
const (
	highlySuitableScore = 80.0
	suitableScore       = 60.0
)

// Explain builds the human-readable justification for a recommendation.
// Sentences appear in a fixed order: suitability tier, season fit,
// temperature, rainfall, soil pH. Conditions that do not hold are omitted.
func Explain(name string, p CropProfile, f FeatureInput, score float64) string {
	sentences := make([]string, 0, 5)

	switch {
	case score >= highlySuitableScore:
		sentences = append(sentences, name+" is highly suitable for your location.")
	case score >= suitableScore:
		sentences = append(sentences, name+" is suitable for your location.")
	default:
		sentences = append(sentences, name+" is moderately suitable for your location.")
	}

	if p.GrownIn(f.Season) {
		sentences = append(sentences, fmt.Sprintf("It is ideal for %s season.", f.Season))
	}
	if p.Temperature.Contains(f.AvgTemperature) {
		sentences = append(sentences, fmt.Sprintf("Temperature conditions (%s°C) are optimal.", formatReading(f.AvgTemperature)))
	}
	if p.Rainfall.Contains(f.AvgRainfall) {
		sentences = append(sentences, fmt.Sprintf("Rainfall (%smm) is within ideal range.", formatReading(f.AvgRainfall)))
	}
	if p.PH.Contains(f.SoilPH) {
		sentences = append(sentences, fmt.Sprintf("Soil pH (%.1f) is suitable.", f.SoilPH))
	}

	return strings.Join(sentences, " ")
}

// formatReading prints the shortest exact decimal, e.g. 25 or 27.5.
func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
