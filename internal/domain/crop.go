package domain

import (
	"errors"
	"fmt"
	"slices"
)

// Season is a cropping season category.
type Season string

const (
	Kharif Season = "Kharif"
	Rabi   Season = "Rabi"
	Zaid   Season = "Zaid"
)

// Seasons lists the recognized seasons.
var Seasons = []Season{Kharif, Rabi, Zaid}

// Valid reports whether s is a recognized season.
func (s Season) Valid() bool {
	return slices.Contains(Seasons, s)
}

// CropProfile describes the growing conditions a crop tolerates.
type CropProfile struct {
	Name        string   `json:"name" yaml:"name"`
	Seasons     []Season `json:"seasons" yaml:"seasons"`
	PH          Range    `json:"phRange" yaml:"ph"`
	Temperature Range    `json:"temperatureRange" yaml:"temperature"`
	Rainfall    Range    `json:"rainfallRange" yaml:"rainfall"`
	Nitrogen    Range    `json:"nitrogenRange" yaml:"nitrogen"`
	Phosphorus  Range    `json:"phosphorusRange" yaml:"phosphorus"`
	Potassium   Range    `json:"potassiumRange" yaml:"potassium"`
	BaseYield   float64  `json:"baseYield" yaml:"base_yield"` // kg/hectare under ideal conditions
}

// GrownIn reports whether the crop can be sown in season s.
func (p CropProfile) GrownIn(s Season) bool {
	return slices.Contains(p.Seasons, s)
}

// Validate checks that the profile is usable as scoring reference data.
func (p CropProfile) Validate() error {
	if p.Name == "" {
		return errors.New("crop name is required")
	}
	if len(p.Seasons) == 0 {
		return fmt.Errorf("crop %s: at least one season is required", p.Name)
	}
	for _, s := range p.Seasons {
		if !s.Valid() {
			return fmt.Errorf("crop %s: unknown season %q", p.Name, s)
		}
	}
	ranges := []struct {
		field string
		r     Range
	}{
		{"ph", p.PH},
		{"temperature", p.Temperature},
		{"rainfall", p.Rainfall},
		{"nitrogen", p.Nitrogen},
		{"phosphorus", p.Phosphorus},
		{"potassium", p.Potassium},
	}
	for _, rr := range ranges {
		if err := rr.r.validate(rr.field); err != nil {
			return fmt.Errorf("crop %s: %w", p.Name, err)
		}
	}
	if p.BaseYield < 0 {
		return fmt.Errorf("crop %s: base yield must not be negative", p.Name)
	}
	return nil
}
