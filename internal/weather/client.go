package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	// ErrCityNotFound is returned when geocoding yields no match
	ErrCityNotFound = errors.New("city not found")
	// ErrProvider wraps every transport, status and decoding failure
	ErrProvider = errors.New("weather provider request failed")
)

// Client calls the OpenWeatherMap geocoding and forecast endpoints
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a client sharing one HTTP client and circuit breaker
// across all requests
func NewClient(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "openweathermap",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cfg.BreakerMaxFailures > 0 &&
				counts.ConsecutiveFailures >= uint32(cfg.BreakerMaxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		circuit:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// ResolveCity returns the first geocoding match for name
func (c *Client) ResolveCity(ctx context.Context, name string) (*model.GeoResult, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)

	var matches []model.GeoResult
	if err := c.get(ctx, "/geo/1.0/direct", params, &matches); err != nil {
		c.logger.Error("Failed to get city data", zap.String("city", name), zap.Error(err))
		return nil, err
	}

	if len(matches) == 0 {
		c.logger.Error("Failed to get city data", zap.String("city", name), zap.Error(ErrCityNotFound))
		return nil, ErrCityNotFound
	}
	return &matches[0], nil
}

// FetchForecast returns the raw forecast for the given coordinates
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64, language, units string) (*model.RawForecastResponse, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("lang", language)
	params.Set("units", units)
	params.Set("appid", c.apiKey)

	var forecast model.RawForecastResponse
	if err := c.get(ctx, "/data/2.5/forecast", params, &forecast); err != nil {
		c.logger.Error("Failed to get weather data",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
		return nil, err
	}
	return &forecast, nil
}

// get performs one GET through the circuit breaker and decodes the JSON body
// into dest. No retries are attempted.
func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	_, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		c.logger.Debug("Provider responded",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(started)),
		)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return nil
}
