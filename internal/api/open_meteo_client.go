package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"weathersnap/internal/metrics"
	"weathersnap/internal/models"
)

const (
	defaultBaseURL   = "https://api.open-meteo.com/v1/forecast"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "UniversityWeatherBot/1.0"

	// error bodies are truncated to this many bytes
	maxErrorBody = 512
)

// OpenMeteoClient is a client for the Open-Meteo API
type OpenMeteoClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

type ForecastParams struct {
	Latitude        float64
	Longitude       float64
	CurrentFields   []string
	HourlyFields    []string
	DailyFields     []string
	Timezone        string
	TemperatureUnit string // omitted when empty, Open-Meteo defaults to celsius
	ForecastDays    int    // omitted when 0
}

type Option func(*OpenMeteoClient)

func WithBaseURL(baseURL string) Option {
	return func(c *OpenMeteoClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *OpenMeteoClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *OpenMeteoClient) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// NewOpenMeteoClient creates a new Open-Meteo API client with a 30s timeout
func NewOpenMeteoClient(opts ...Option) *OpenMeteoClient {
	c := &OpenMeteoClient{
		client:    &http.Client{Timeout: defaultTimeout},
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetForecast performs a single GET and returns the body as a generic mapping.
// Transport errors, non-2xx statuses and malformed JSON are returned as errors; there is no retry.
func (c *OpenMeteoClient) GetForecast(ctx context.Context, forecastParams ForecastParams) (models.Raw, error) {
	start := time.Now()
	raw, status, err := c.getForecast(ctx, c.BuildURL(forecastParams))
	metrics.RecordAPIRequest(status, time.Since(start), err)
	return raw, err
}

func (c *OpenMeteoClient) getForecast(ctx context.Context, url string) (models.Raw, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw models.Raw
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	if raw == nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: body is not a JSON object")
	}

	return raw, resp.StatusCode, nil
}

// Builds URL for OpenMeteoClient request
func (c *OpenMeteoClient) BuildURL(forecastParams ForecastParams) string {
	if forecastParams.Timezone == "" {
		forecastParams.Timezone = "auto"
	}

	url := fmt.Sprintf("%s?latitude=%s&longitude=%s&timezone=%s",
		c.baseURL, formatCoord(forecastParams.Latitude), formatCoord(forecastParams.Longitude), forecastParams.Timezone)

	if forecastParams.TemperatureUnit != "" {
		url += "&temperature_unit=" + forecastParams.TemperatureUnit
	}

	if len(forecastParams.CurrentFields) > 0 {
		url += "&current=" + strings.Join(forecastParams.CurrentFields, ",")
	}

	if len(forecastParams.HourlyFields) > 0 {
		url += "&hourly=" + strings.Join(forecastParams.HourlyFields, ",")
	}

	if len(forecastParams.DailyFields) > 0 {
		url += "&daily=" + strings.Join(forecastParams.DailyFields, ",")
	}

	if forecastParams.ForecastDays > 0 {
		url += fmt.Sprintf("&forecast_days=%d", forecastParams.ForecastDays)
	}

	return url
}

// formatCoord prints the shortest representation, so 42.2814 stays 42.2814
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
