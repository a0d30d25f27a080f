package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock weather provider ---

type mockWeather struct {
	coords       Coordinates
	geocodeErr   error
	forecast     WeatherSnapshot
	forecastErr  error
	geocodeCalls int
	forecastAt   []Coordinates
}

func (m *mockWeather) Geocode(_ context.Context, _, _ string) (Coordinates, error) {
	m.geocodeCalls++
	return m.coords, m.geocodeErr
}

func (m *mockWeather) Forecast(_ context.Context, at Coordinates) (WeatherSnapshot, error) {
	m.forecastAt = append(m.forecastAt, at)
	return m.forecast, m.forecastErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var storedWeather = WeatherSnapshot{AvgTemperature: 26, AvgRainfall: 1100, AvgHumidity: 70}

// --- tests ---

func TestRefreshWeather_NilProvider(t *testing.T) {
	district := DistrictRecord{State: "Punjab", District: "Ludhiana"}

	got, source := RefreshWeather(context.Background(), district, storedWeather, nil, discardLogger())

	assert.Equal(t, storedWeather, got)
	assert.Equal(t, WeatherSourceStored, source)
}

func TestRefreshWeather_UsesStoredCoordinates(t *testing.T) {
	live := WeatherSnapshot{AvgTemperature: 31.2, AvgRainfall: 4.1, AvgHumidity: 55}
	provider := &mockWeather{forecast: live}
	district := DistrictRecord{
		State:       "Punjab",
		District:    "Ludhiana",
		Coordinates: &Coordinates{Latitude: 30.9, Longitude: 75.85},
	}

	got, source := RefreshWeather(context.Background(), district, storedWeather, provider, discardLogger())

	assert.Equal(t, live, got)
	assert.Equal(t, WeatherSourceRealtime, source)
	assert.Equal(t, 0, provider.geocodeCalls)
	assert.Equal(t, []Coordinates{{Latitude: 30.9, Longitude: 75.85}}, provider.forecastAt)
}

func TestRefreshWeather_GeocodesWithoutCoordinates(t *testing.T) {
	live := WeatherSnapshot{AvgTemperature: 29, AvgRainfall: 3, AvgHumidity: 65}
	provider := &mockWeather{
		coords:   Coordinates{Latitude: 21.15, Longitude: 79.09},
		forecast: live,
	}
	district := DistrictRecord{State: "Maharashtra", District: "Nagpur"}

	got, source := RefreshWeather(context.Background(), district, storedWeather, provider, discardLogger())

	assert.Equal(t, live, got)
	assert.Equal(t, WeatherSourceRealtime, source)
	assert.Equal(t, 1, provider.geocodeCalls)
	assert.Equal(t, []Coordinates{{Latitude: 21.15, Longitude: 79.09}}, provider.forecastAt)
}

func TestRefreshWeather_ZeroCoordinatesTriggerGeocode(t *testing.T) {
	provider := &mockWeather{coords: Coordinates{Latitude: 1, Longitude: 2}}
	district := DistrictRecord{State: "Kerala", District: "Idukki", Coordinates: &Coordinates{}}

	_, source := RefreshWeather(context.Background(), district, storedWeather, provider, discardLogger())

	assert.Equal(t, WeatherSourceRealtime, source)
	assert.Equal(t, 1, provider.geocodeCalls)
}

func TestRefreshWeather_GeocodeFailure(t *testing.T) {
	provider := &mockWeather{geocodeErr: ErrCoordinatesNotFound}
	district := DistrictRecord{State: "Bihar", District: "Nowhere"}

	got, source := RefreshWeather(context.Background(), district, storedWeather, provider, discardLogger())

	assert.Equal(t, storedWeather, got)
	assert.Equal(t, WeatherSourceFallback, source)
	assert.Empty(t, provider.forecastAt, "forecast must not run without coordinates")
}

func TestRefreshWeather_ForecastFailure(t *testing.T) {
	provider := &mockWeather{
		coords:      Coordinates{Latitude: 25.6, Longitude: 85.1},
		forecastErr: errors.New("status 502"),
	}
	district := DistrictRecord{State: "Bihar", District: "Patna"}

	got, source := RefreshWeather(context.Background(), district, storedWeather, provider, discardLogger())

	assert.Equal(t, storedWeather, got)
	assert.Equal(t, WeatherSourceFallback, source)
}
