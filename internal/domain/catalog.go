package domain

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrCropNotFound is returned when a crop name is not in the catalog.
var ErrCropNotFound = errors.New("crop not found")

// Catalog is the immutable table of crop profiles used as scoring reference
// data. Iteration order is the order profiles were supplied in and decides
// ranking ties. A Catalog is safe for concurrent use.
type Catalog struct {
	crops []CropProfile
	index map[string]int
}

// NewCatalog validates the profiles and builds a catalog. Crop names must be unique.
func NewCatalog(profiles ...CropProfile) (*Catalog, error) {
	c := &Catalog{
		crops: make([]CropProfile, 0, len(profiles)),
		index: make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[p.Name]; dup {
			return nil, fmt.Errorf("duplicate crop %q", p.Name)
		}
		p.Seasons = slices.Clone(p.Seasons)
		c.index[p.Name] = len(c.crops)
		c.crops = append(c.crops, p)
	}
	return c, nil
}

// Len returns the number of crops in the catalog.
func (c *Catalog) Len() int { return len(c.crops) }

// Lookup returns the profile for the named crop.
func (c *Catalog) Lookup(name string) (CropProfile, bool) {
	i, ok := c.index[name]
	if !ok {
		return CropProfile{}, false
	}
	return c.crops[i], true
}

// Crops returns the profiles in catalog order. The returned slice is a copy.
func (c *Catalog) Crops() []CropProfile {
	return slices.Clone(c.crops)
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Crops []CropProfile `yaml:"crops"`
}

// LoadCatalog reads a crop catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if len(f.Crops) == 0 {
		return nil, fmt.Errorf("catalog has no crops")
	}
	return NewCatalog(f.Crops...)
}

// DefaultCatalog returns the reference crop table.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(referenceCrops...)
	if err != nil {
		panic(fmt.Sprintf("reference crop catalog is invalid: %v", err))
	}
	return c
}

var referenceCrops = []CropProfile{
	{
		Name:        "Rice",
		Seasons:     []Season{Kharif},
		PH:          Range{5.5, 7.0},
		Temperature: Range{20, 35},
		Rainfall:    Range{1000, 2500},
		Nitrogen:    Range{80, 150},
		Phosphorus:  Range{15, 30},
		Potassium:   Range{100, 200},
		BaseYield:   3000,
	},
	{
		Name:        "Wheat",
		Seasons:     []Season{Rabi},
		PH:          Range{6.0, 7.5},
		Temperature: Range{15, 25},
		Rainfall:    Range{400, 800},
		Nitrogen:    Range{100, 180},
		Phosphorus:  Range{20, 40},
		Potassium:   Range{120, 220},
		BaseYield:   3500,
	},
	{
		Name:        "Maize",
		Seasons:     []Season{Kharif, Rabi},
		PH:          Range{5.5, 7.5},
		Temperature: Range{18, 30},
		Rainfall:    Range{600, 1200},
		Nitrogen:    Range{120, 200},
		Phosphorus:  Range{25, 45},
		Potassium:   Range{150, 250},
		BaseYield:   4000,
	},
	{
		Name:        "Cotton",
		Seasons:     []Season{Kharif},
		PH:          Range{5.5, 8.0},
		Temperature: Range{21, 30},
		Rainfall:    Range{500, 1000},
		Nitrogen:    Range{80, 150},
		Phosphorus:  Range{15, 35},
		Potassium:   Range{100, 200},
		BaseYield:   500,
	},
	{
		Name:        "Sugarcane",
		Seasons:     []Season{Kharif, Rabi},
		PH:          Range{6.0, 7.5},
		Temperature: Range{20, 32},
		Rainfall:    Range{1200, 2000},
		Nitrogen:    Range{150, 250},
		Phosphorus:  Range{30, 60},
		Potassium:   Range{200, 350},
		BaseYield:   70000,
	},
	{
		Name:        "Soybean",
		Seasons:     []Season{Kharif},
		PH:          Range{6.0, 7.0},
		Temperature: Range{20, 30},
		Rainfall:    Range{600, 1000},
		Nitrogen:    Range{50, 100},
		Phosphorus:  Range{20, 40},
		Potassium:   Range{100, 200},
		BaseYield:   2000,
	},
	{
		Name:        "Groundnut",
		Seasons:     []Season{Kharif, Rabi},
		PH:          Range{5.5, 7.0},
		Temperature: Range{24, 33},
		Rainfall:    Range{500, 900},
		Nitrogen:    Range{40, 80},
		Phosphorus:  Range{15, 30},
		Potassium:   Range{80, 150},
		BaseYield:   2500,
	},
	{
		Name:        "Potato",
		Seasons:     []Season{Rabi},
		PH:          Range{5.0, 6.5},
		Temperature: Range{15, 20},
		Rainfall:    Range{300, 600},
		Nitrogen:    Range{100, 200},
		Phosphorus:  Range{30, 60},
		Potassium:   Range{150, 300},
		BaseYield:   25000,
	},
}
