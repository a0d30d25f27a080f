package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/agri-advisor-service/internal/domain"
)

func printRecommendations(w io.Writer, req domain.PredictionRequest, recs []domain.Recommendation) {
	snap := req.Snapshot()
	fmt.Fprintf(w, "%s, %s (%s)\n", req.District, req.State, req.Season)
	fmt.Fprintf(w, "  soil: pH %.1f, OC %.2f%%, N %.0f, P %.0f, K %.0f\n",
		snap.Soil.PH, snap.Soil.OrganicCarbon, snap.Soil.Nitrogen, snap.Soil.Phosphorus, snap.Soil.Potassium)
	fmt.Fprintf(w, "  weather: %.1f°C, %.0f mm, %.0f%% humidity\n\n",
		snap.Weather.AvgTemperature, snap.Weather.AvgRainfall, snap.Weather.AvgHumidity)

	if len(recs) == 0 {
		fmt.Fprintln(w, "No suitable crops.")
		return
	}

	for i, r := range recs {
		y := r.YieldPrediction
		fmt.Fprintf(w, "%d. %-10s %5.1f  yield %.0f-%.0f kg/ha (expected %.0f)\n",
			i+1, r.CropName, r.SuitabilityScore, y.Min, y.Max, y.Expected)
		fmt.Fprintf(w, "   %s\n", r.Explanation)
	}
}

func printCatalog(w io.Writer, c *domain.Catalog) {
	fmt.Fprintf(w, "%d crops\n\n", c.Len())
	for _, p := range c.Crops() {
		seasons := make([]string, len(p.Seasons))
		for i, s := range p.Seasons {
			seasons[i] = string(s)
		}
		fmt.Fprintf(w, "%s [%s]\n", p.Name, strings.Join(seasons, ", "))
		fmt.Fprintf(w, "  pH %s  temp %s  rain %s\n", span(p.PH), span(p.Temperature), span(p.Rainfall))
		fmt.Fprintf(w, "  N %s  P %s  K %s\n", span(p.Nitrogen), span(p.Phosphorus), span(p.Potassium))
		fmt.Fprintf(w, "  base yield %.0f kg/ha\n", p.BaseYield)
	}
}

func span(r domain.Range) string {
	return fmt.Sprintf("%g-%g", r.Min, r.Max)
}
