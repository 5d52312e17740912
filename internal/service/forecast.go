package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/alexivanou/weather-requests/internal/weather"
	"go.uber.org/zap"
)

var (
	// ErrCityData is returned when the city cannot be geocoded
	ErrCityData = errors.New("Failed to get city data")
	// ErrWeatherData is returned when the forecast cannot be fetched
	ErrWeatherData = errors.New("Failed to get weather data")
)

// GetForecast resolves the city, fetches and formats its forecast and
// records the request in the store. The query is used as given; defaults are
// applied by the caller.
func (s *Service) GetForecast(ctx context.Context, query model.ForecastQuery) (*model.ForecastResponse, error) {
	geo, err := s.provider.ResolveCity(ctx, query.City)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCityData, err)
	}

	raw, err := s.provider.FetchForecast(ctx, geo.Latitude, geo.Longitude, query.Language, query.Units)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeatherData, err)
	}

	forecasts := weather.FormatEntries(raw.List)

	record := &model.StoredRequest{
		City:      query.City,
		Language:  query.Language,
		Units:     query.Units,
		Forecast:  forecasts,
		Timestamp: s.now().UTC(),
	}
	if err := s.requests.Save(ctx, record); err != nil {
		s.logger.Error("Failed to save request",
			zap.String("city", query.City),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	return &model.ForecastResponse{
		CityName:  geo.Name,
		Forecasts: forecasts,
	}, nil
}

// ListRequests returns the stored requests matching the filter
func (s *Service) ListRequests(ctx context.Context, filter model.RequestFilter) ([]model.StoredRequest, error) {
	requests, err := s.requests.Find(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	if requests == nil {
		requests = []model.StoredRequest{}
	}
	return requests, nil
}
