package domain

import (
	"cmp"
	"slices"
)

// Ranking cutoffs.
const (
	// DefaultMinScore drops crops scoring below it from the output entirely.
	DefaultMinScore = 30.0
	// DefaultMaxResults caps the number of recommendations returned.
	DefaultMaxResults = 5
)

// Recommendation is one ranked crop suggestion.
type Recommendation struct {
	CropName             string        `json:"cropName" bson:"cropName"`
	SuitabilityScore     float64       `json:"suitabilityScore" bson:"suitabilityScore"`
	YieldPrediction      YieldEstimate `json:"yieldPrediction" bson:"yieldPrediction"`
	Explanation          string        `json:"explanation" bson:"explanation"`
	EnvironmentalFactors Factors       `json:"environmentalFactors" bson:"environmentalFactors"`
}

// Engine ranks catalog crops against observed features. It holds no mutable
// state, so one Engine can serve any number of concurrent callers.
type Engine struct {
	catalog *Catalog

	// MinScore is the exclusive-below cutoff: crops scoring < MinScore are dropped.
	MinScore float64
	// MaxResults caps the output length. Zero or negative disables the cap.
	MaxResults int
}

// NewEngine creates an Engine over catalog with the default cutoffs.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{
		catalog:    catalog,
		MinScore:   DefaultMinScore,
		MaxResults: DefaultMaxResults,
	}
}

// Catalog returns the crop catalog the engine scores against.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Recommend scores every crop, drops those below MinScore and returns the
// rest best first, at most MaxResults of them. Equal scores keep catalog
// order. The result is empty, never nil, when no crop qualifies.
func (e *Engine) Recommend(f FeatureInput) []Recommendation {
	recs := make([]Recommendation, 0, e.catalog.Len())
	for _, p := range e.catalog.crops {
		score := Score(p, f)
		if score < e.MinScore {
			continue
		}
		recs = append(recs, Recommendation{
			CropName:             p.Name,
			SuitabilityScore:     round(score, 1),
			YieldPrediction:      EstimateYield(p, score),
			Explanation:          Explain(p.Name, p, f, score),
			EnvironmentalFactors: EnvironmentalFactors(p, f),
		})
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return cmp.Compare(b.SuitabilityScore, a.SuitabilityScore)
	})

	if e.MaxResults > 0 && len(recs) > e.MaxResults {
		recs = recs[:e.MaxResults]
	}
	return recs
}
