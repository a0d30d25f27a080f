package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/agri-advisor-service/internal/adapter/mongo"
	"github.com/couchcryptid/agri-advisor-service/internal/domain"
)

type recommendOptions struct {
	season   string
	state    string
	district string
	readings map[string]float64 // flag name -> value, only flags the user set
	asJSON   bool
}

type aggregateOptions struct {
	soilPath    string
	weatherPath string
	cropsPath   string
	outPath     string
	mongoURI    string
	mongoDB     string
}

func loadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	return domain.LoadCatalog(path)
}

// predictionRequest builds the request the service would receive for the
// given options. Readings not set on the command line keep their defaults.
func predictionRequest(opts recommendOptions) domain.PredictionRequest {
	reading := func(name string) *float64 {
		v, ok := opts.readings[name]
		if !ok {
			return nil
		}
		return &v
	}
	return domain.PredictionRequest{
		State:    opts.state,
		District: opts.district,
		Season:   opts.season,
		Soil: domain.SoilReadings{
			PH:            reading("ph"),
			OrganicCarbon: reading("organic-carbon"),
			Nitrogen:      reading("nitrogen"),
			Phosphorus:    reading("phosphorus"),
			Potassium:     reading("potassium"),
		},
		Weather: domain.WeatherReadings{
			AvgTemperature: reading("temperature"),
			AvgRainfall:    reading("rainfall"),
			AvgHumidity:    reading("humidity"),
		},
	}
}

func runRecommend(w io.Writer, catalog *domain.Catalog, opts recommendOptions) error {
	req := predictionRequest(opts)
	if err := req.Validate(); err != nil {
		return err
	}
	if !domain.Season(req.Season).Valid() {
		fmt.Fprintf(os.Stderr, "warning: unknown season %q, no crop will qualify\n", req.Season)
	}

	recs := domain.NewEngine(catalog).Recommend(req.Features())
	if opts.asJSON {
		return writeJSON(w, map[string]any{"recommendations": recs})
	}
	printRecommendations(w, req, recs)
	return nil
}

func runAggregate(ctx context.Context, w io.Writer, opts aggregateOptions) error {
	if opts.soilPath == "" && opts.weatherPath == "" && opts.cropsPath == "" {
		return errors.New("at least one of --soil, --weather or --crops is required")
	}

	var (
		soil    []domain.SoilSourceRecord
		weather []domain.WeatherSourceRecord
		crops   []domain.CropSourceRecord
	)
	if err := readFeed(opts.soilPath, &soil); err != nil {
		return err
	}
	if err := readFeed(opts.weatherPath, &weather); err != nil {
		return err
	}
	if err := readFeed(opts.cropsPath, &crops); err != nil {
		return err
	}

	records := domain.MergeDistrictData(soil, weather, crops)

	if opts.outPath == "" {
		if err := writeJSON(w, records); err != nil {
			return err
		}
	} else {
		if err := writeFile(opts.outPath, records); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %d district records to %s\n", len(records), opts.outPath)
	}

	if opts.mongoURI == "" {
		return nil
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store, err := mongo.Connect(ctx, opts.mongoURI, opts.mongoDB, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background()) //nolint:errcheck // best-effort disconnect

	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	n, err := store.UpsertDistricts(ctx, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "upserted %d district records into %s\n", n, opts.mongoDB)
	return nil
}

// readFeed decodes a JSON array file into dst. An empty path leaves dst unset.
func readFeed(path string, dst any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading feed: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing feed %s: %w", path, err)
	}
	return nil
}

// writeFile encodes v as indented JSON into path and closes it.
func writeFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writeJSON(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
