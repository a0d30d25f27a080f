// Package domain models district soil/weather observations and the crop
// recommendation engine that scores them.
//
// # Data Source
//
// District records are produced by an offline aggregation step that merges
// three upstream feeds keyed by (state, district): soil samples (SoilGrids),
// weather statistics (WeatherAPI / OpenWeatherMap) and crop-yield history.
// Each numeric reading is stored as a mean/median/stddev aggregate. See
// [MergeDistrictData].
//
// # Seasons
//
// Indian cropping seasons gate crop viability:
//
//	Kharif  monsoon-sown, June to October
//	Rabi    winter-sown, October to March
//	Zaid    short summer season between Rabi and Kharif
//
// A season outside this set is not an error. Every crop is gated to a score
// of zero for it, so the engine returns an empty list.
//
// # Scoring
//
// Each crop in the [Catalog] carries closed ranges for soil pH, temperature
// (°C), rainfall (mm), and soil nitrogen, phosphorus and potassium. A district
// scores 100 points, minus a penalty per climate/soil dimension:
//
//	pH:          out of range -20 | in range -10 × |v - mid| / width
//	temperature: out of range -25 | in range -15 × |v - mid| / width
//	rainfall:    out of range -20 | in range -10 × |v - mid| / width
//
// plus a flat +5 for each nutrient that falls inside its range. The total is
// clamped to [0, 100]. The weights are empirical and kept as-is for
// compatibility with previously issued recommendations.
//
// Crops scoring below [DefaultMinScore] are dropped, the rest are ranked by
// score (ties keep catalog order) and the top [DefaultMaxResults] returned.
//
// # Units
//
// Yield figures are kg/hectare. Rainfall is millimetres over the averaging
// window of the upstream feed, temperature is degrees Celsius.
package domain
