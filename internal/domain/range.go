package domain

import (
	"fmt"
	"math"
)

// Range is a closed numeric interval. Both bounds are inclusive.
type Range struct {
	Min float64 `json:"min" yaml:"min" bson:"min"`
	Max float64 `json:"max" yaml:"max" bson:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Midpoint returns the optimum of the range.
func (r Range) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Width returns Max - Min.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Penalty returns the points lost for observing v against this range.
// Out of range costs the fixed outOfRange penalty. In range costs
// weight × |v - midpoint| / width, which never exceeds weight/2.
func (r Range) Penalty(v, weight, outOfRange float64) float64 {
	if !r.Contains(v) {
		return outOfRange
	}
	width := r.Width()
	if width == 0 {
		return 0
	}
	return weight * math.Abs(v-r.Midpoint()) / width
}

// Bonus returns points when v lies within the range, zero otherwise.
func (r Range) Bonus(v, points float64) float64 {
	if r.Contains(v) {
		return points
	}
	return 0
}

func (r Range) validate(field string) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("%s range is not a number", field)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s range min %g exceeds max %g", field, r.Min, r.Max)
	}
	return nil
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
