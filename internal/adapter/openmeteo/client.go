package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	"github.com/couchcryptid/agri-advisor-service/internal/observability"
)

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"

	// Averages reported when the forecast returns an empty series.
	fallbackTemperature   = 25.0
	fallbackPrecipitation = 5.0
	fallbackHumidity      = 60.0
)

// Client implements domain.WeatherProvider against the Open-Meteo APIs.
// Neither endpoint needs an API key.
type Client struct {
	httpClient   *http.Client
	geocodingURL string
	forecastURL  string
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates an Open-Meteo client with the given request timeout.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		geocodingURL: defaultGeocodingURL,
		forecastURL:  defaultForecastURL,
		metrics:      metrics,
		logger:       logger,
	}
}

// Geocode resolves a district to coordinates, taking the best match in India.
// It wraps domain.ErrCoordinatesNotFound when the search has no results.
func (c *Client) Geocode(ctx context.Context, state, district string) (domain.Coordinates, error) {
	params := url.Values{
		"name":     {district},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
		"country":  {"India"},
	}

	var resp geocodingResponse
	if err := c.get(ctx, c.geocodingURL+"?"+params.Encode(), "geocode", &resp); err != nil {
		return domain.Coordinates{}, err
	}

	if len(resp.Results) == 0 {
		c.metrics.WeatherRequests.WithLabelValues("geocode", "empty").Inc()
		return domain.Coordinates{}, fmt.Errorf("%w for %s, %s", domain.ErrCoordinatesNotFound, district, state)
	}

	c.metrics.WeatherRequests.WithLabelValues("geocode", "success").Inc()
	best := resp.Results[0]
	c.logger.Debug("geocoded district",
		"state", state,
		"district", district,
		"match", best.Name,
		"lat", best.Latitude,
		"lon", best.Longitude,
	)
	return domain.Coordinates{Latitude: best.Latitude, Longitude: best.Longitude}, nil
}

// Forecast averages the hourly series over the last two days and the next
// three. Rainfall is the mean hourly precipitation in mm.
func (c *Client) Forecast(ctx context.Context, at domain.Coordinates) (domain.WeatherSnapshot, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(at.Latitude, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(at.Longitude, 'f', -1, 64)},
		"hourly":        {"temperature_2m,relativehumidity_2m,precipitation"},
		"past_days":     {"2"},
		"forecast_days": {"3"},
		"timezone":      {"auto"},
	}

	var resp forecastResponse
	if err := c.get(ctx, c.forecastURL+"?"+params.Encode(), "forecast", &resp); err != nil {
		return domain.WeatherSnapshot{}, err
	}

	outcome := "success"
	if len(resp.Hourly.Temperature) == 0 && len(resp.Hourly.Humidity) == 0 && len(resp.Hourly.Precipitation) == 0 {
		outcome = "empty"
	}
	c.metrics.WeatherRequests.WithLabelValues("forecast", outcome).Inc()

	return domain.WeatherSnapshot{
		AvgTemperature: meanOr(resp.Hourly.Temperature, fallbackTemperature),
		AvgRainfall:    meanOr(resp.Hourly.Precipitation, fallbackPrecipitation),
		AvgHumidity:    meanOr(resp.Hourly.Humidity, fallbackHumidity),
	}, nil
}

func (c *Client) get(ctx context.Context, fullURL, method string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.WeatherAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.WeatherRequests.WithLabelValues(method, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.WeatherRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

// meanOr returns the arithmetic mean of the non-null values, or fallback
// when there are none.
func meanOr(values []*float64, fallback float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}

// Open-Meteo API response types.

type geocodingResponse struct {
	Results []place `json:"results"`
}

type place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Admin1    string  `json:"admin1"`
}

// Hourly values may be null for hours the model has not produced yet.
type forecastResponse struct {
	Hourly struct {
		Temperature   []*float64 `json:"temperature_2m"`
		Humidity      []*float64 `json:"relativehumidity_2m"`
		Precipitation []*float64 `json:"precipitation"`
	} `json:"hourly"`
}
