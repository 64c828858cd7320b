package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rickchristie/reagent"
	"github.com/tidwall/gjson"
)

const (
	// GetWeatherName is the name of the weather tool.
	GetWeatherName = "get_weather"

	// OpenMeteoGeocodingURL resolves city names to coordinates.
	OpenMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

	// OpenMeteoForecastURL returns hourly forecasts for coordinates.
	OpenMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// Weather reports the current temperature for a city using Open-Meteo. No API key is
// needed.
type Weather struct {
	geocodingURL string
	forecastURL  string
	client       *http.Client
}

// NewWeather creates the tool against the public Open-Meteo endpoints.
func NewWeather() *Weather {
	return &Weather{
		geocodingURL: OpenMeteoGeocodingURL,
		forecastURL:  OpenMeteoForecastURL,
		client:       DefaultHTTPClient(),
	}
}

// WithBaseURLs overrides the geocoding and forecast endpoints.
func (w *Weather) WithBaseURLs(geocoding, forecast string) *Weather {
	w.geocodingURL = geocoding
	w.forecastURL = forecast
	return w
}

// WithHTTPClient sets the HTTP client.
func (w *Weather) WithHTTPClient(c *http.Client) *Weather {
	w.client = c
	return w
}

func (w *Weather) Name() string { return GetWeatherName }

func (w *Weather) Description() string {
	return "Fetch the current temperature for a specified city"
}

func (w *Weather) Example() string { return "Kuala Lumpur" }

// Call geocodes the city named by argument and returns its first hourly temperature.
// An unknown city is reported as text rather than as an error.
func (w *Weather) Call(ctx context.Context, argument string) (string, error) {
	city := strings.TrimSpace(argument)
	if city == "" {
		return "", errors.New("city name is required")
	}

	geo, err := getJSON(ctx, w.client, w.geocodingURL, url.Values{
		"name":  {city},
		"count": {"1"},
	})
	if err != nil {
		return "", fmt.Errorf("geocoding: %w", err)
	}
	place := geo.Get("results.0")
	if !place.Exists() {
		return fmt.Sprintf("Could not find location for %s.", city), nil
	}

	forecast, err := getJSON(ctx, w.client, w.forecastURL, url.Values{
		"latitude":  {place.Get("latitude").Raw},
		"longitude": {place.Get("longitude").Raw},
		"hourly":    {"temperature_2m"},
	})
	if err != nil {
		return "", fmt.Errorf("forecast: %w", err)
	}
	temp := forecast.Get("hourly.temperature_2m.0")
	if !temp.Exists() || temp.Type != gjson.Number {
		return "", fmt.Errorf("forecast: no temperature for %s", city)
	}

	unit := forecast.Get("hourly_units.temperature_2m").String()
	if unit == "" {
		unit = "°C"
	}
	return fmt.Sprintf("The current temperature in %s is %s%s.", city, temp.Raw, unit), nil
}

var (
	_ reagent.Tool     = (*Weather)(nil)
	_ reagent.Exampler = (*Weather)(nil)
)
