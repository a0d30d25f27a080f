package domain

import (
	"cmp"
	"errors"
	"slices"
	"time"
)

// ErrDistrictNotFound is returned when no aggregated record exists for a district.
var ErrDistrictNotFound = errors.New("district data not found")

// Fallbacks used when a stored district record lacks a reading. These differ
// from the request defaults: they reflect typical aggregated district values.
const (
	districtFallbackPH             = 6.5
	districtFallbackOrganicCarbon  = 0.8
	districtFallbackNitrogen       = 120.0
	districtFallbackPhosphorus     = 25.0
	districtFallbackPotassium      = 180.0
	districtFallbackAvgTemperature = 25.0
	districtFallbackAvgRainfall    = 800.0
	districtFallbackAvgHumidity    = 60.0
)

// Stat is an aggregate over the samples of one reading.
type Stat struct {
	Mean   float64 `json:"mean" bson:"mean"`
	Median float64 `json:"median" bson:"median"`
	StdDev float64 `json:"stdDev" bson:"stdDev"`
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// SoilData holds aggregated soil readings for a district.
type SoilData struct {
	PH            *Stat  `json:"ph,omitempty" bson:"ph,omitempty"`
	OrganicCarbon *Stat  `json:"organicCarbon,omitempty" bson:"organicCarbon,omitempty"`
	Nitrogen      *Stat  `json:"nitrogen,omitempty" bson:"nitrogen,omitempty"`
	Phosphorus    *Stat  `json:"phosphorus,omitempty" bson:"phosphorus,omitempty"`
	Potassium     *Stat  `json:"potassium,omitempty" bson:"potassium,omitempty"`
	SoilType      string `json:"soilType,omitempty" bson:"soilType,omitempty"`
}

// WeatherData holds aggregated weather readings for a district.
type WeatherData struct {
	AvgTemperature *Stat      `json:"avgTemperature,omitempty" bson:"avgTemperature,omitempty"`
	AvgRainfall    *Stat      `json:"avgRainfall,omitempty" bson:"avgRainfall,omitempty"`
	AvgHumidity    *Stat      `json:"avgHumidity,omitempty" bson:"avgHumidity,omitempty"`
	LastUpdated    *time.Time `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`
}

// CropYield is one historical harvest observation.
type CropYield struct {
	Crop   string  `json:"crop" bson:"crop"`
	Season string  `json:"season" bson:"season"`
	Year   int     `json:"year" bson:"year"`
	Yield  float64 `json:"yield" bson:"yield"` // kg/hectare
	Area   float64 `json:"area" bson:"area"`   // hectares
}

// DistrictRecord is the unified per-district document.
type DistrictRecord struct {
	State            string       `json:"state" bson:"state"`
	District         string       `json:"district" bson:"district"`
	Coordinates      *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Soil             SoilData     `json:"soilData" bson:"soilData"`
	Weather          WeatherData  `json:"weatherData" bson:"weatherData"`
	CropYieldHistory []CropYield  `json:"cropYieldHistory" bson:"cropYieldHistory"`
	LastUpdated      time.Time    `json:"lastUpdated" bson:"lastUpdated"`
}

// Snapshot builds the environmental snapshot from the record's means,
// substituting district fallbacks for missing readings.
func (d DistrictRecord) Snapshot() EnvironmentalSnapshot {
	return EnvironmentalSnapshot{
		Soil: SoilSnapshot{
			PH:            meanOr(d.Soil.PH, districtFallbackPH),
			OrganicCarbon: meanOr(d.Soil.OrganicCarbon, districtFallbackOrganicCarbon),
			Nitrogen:      meanOr(d.Soil.Nitrogen, districtFallbackNitrogen),
			Phosphorus:    meanOr(d.Soil.Phosphorus, districtFallbackPhosphorus),
			Potassium:     meanOr(d.Soil.Potassium, districtFallbackPotassium),
		},
		Weather: WeatherSnapshot{
			AvgTemperature: meanOr(d.Weather.AvgTemperature, districtFallbackAvgTemperature),
			AvgRainfall:    meanOr(d.Weather.AvgRainfall, districtFallbackAvgRainfall),
			AvgHumidity:    meanOr(d.Weather.AvgHumidity, districtFallbackAvgHumidity),
		},
	}
}

func meanOr(s *Stat, fallback float64) float64 {
	if s == nil {
		return fallback
	}
	return s.Mean
}

// SoilSourceRecord is one row of the soil feed.
type SoilSourceRecord struct {
	State    string   `json:"state"`
	District string   `json:"district"`
	SoilData SoilData `json:"soilData"`
}

// WeatherSourceRecord is one row of the weather feed.
type WeatherSourceRecord struct {
	State       string       `json:"state"`
	District    string       `json:"district"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	WeatherData WeatherData  `json:"weatherData"`
}

// CropSourceRecord is one row of the crop-yield feed.
type CropSourceRecord struct {
	State       string      `json:"state"`
	District    string      `json:"district"`
	CropHistory []CropYield `json:"cropHistory"`
}

type districtKey struct{ state, district string }

// MergeDistrictData joins the three feeds on (state, district). A district
// present in any feed yields a record; later soil or weather rows for the
// same district replace earlier ones, crop history rows accumulate. Records
// are returned sorted by state, then district.
func MergeDistrictData(soil []SoilSourceRecord, weather []WeatherSourceRecord, crops []CropSourceRecord) []DistrictRecord {
	now := clock.Now().UTC()
	merged := make(map[districtKey]*DistrictRecord)

	get := func(state, district string) *DistrictRecord {
		k := districtKey{state, district}
		rec, ok := merged[k]
		if !ok {
			rec = &DistrictRecord{
				State:            state,
				District:         district,
				CropYieldHistory: []CropYield{},
				LastUpdated:      now,
			}
			merged[k] = rec
		}
		return rec
	}

	for _, s := range soil {
		get(s.State, s.District).Soil = s.SoilData
	}
	for _, w := range weather {
		rec := get(w.State, w.District)
		rec.Weather = w.WeatherData
		if w.Coordinates != nil {
			rec.Coordinates = w.Coordinates
		}
	}
	for _, c := range crops {
		rec := get(c.State, c.District)
		rec.CropYieldHistory = append(rec.CropYieldHistory, c.CropHistory...)
	}

	out := make([]DistrictRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, *rec)
	}
	slices.SortFunc(out, func(a, b DistrictRecord) int {
		return cmp.Or(cmp.Compare(a.State, b.State), cmp.Compare(a.District, b.District))
	})
	return out
}
