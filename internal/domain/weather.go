package domain

import (
	"context"
	"errors"
	"log/slog"
)

// ErrCoordinatesNotFound is returned by a WeatherProvider that cannot place a district.
var ErrCoordinatesNotFound = errors.New("could not resolve coordinates")

// WeatherProvider fetches live conditions for a district.
type WeatherProvider interface {
	// Geocode resolves a district and state to coordinates.
	Geocode(ctx context.Context, state, district string) (Coordinates, error)

	// Forecast returns averaged conditions around the given coordinates.
	Forecast(ctx context.Context, at Coordinates) (WeatherSnapshot, error)
}

// RefreshWeather replaces stored weather with live conditions for the
// district. Stored coordinates are preferred; the provider geocodes the
// district otherwise. If provider is nil the stored snapshot is returned
// unchanged with WeatherSourceStored. Any provider failure is logged and
// the stored snapshot is returned with WeatherSourceFallback.
func RefreshWeather(ctx context.Context, district DistrictRecord, stored WeatherSnapshot, provider WeatherProvider, logger *slog.Logger) (WeatherSnapshot, string) {
	if provider == nil {
		return stored, WeatherSourceStored
	}

	var at Coordinates
	if c := district.Coordinates; c != nil && (c.Latitude != 0 || c.Longitude != 0) {
		at = *c
	} else {
		resolved, err := provider.Geocode(ctx, district.State, district.District)
		if err != nil {
			logger.Warn("geocoding failed, using stored weather",
				"state", district.State,
				"district", district.District,
				"error", err,
			)
			return stored, WeatherSourceFallback
		}
		at = resolved
	}

	live, err := provider.Forecast(ctx, at)
	if err != nil {
		logger.Warn("forecast failed, using stored weather",
			"state", district.State,
			"district", district.District,
			"lat", at.Latitude,
			"lon", at.Longitude,
			"error", err,
		)
		return stored, WeatherSourceFallback
	}
	return live, WeatherSourceRealtime
}
