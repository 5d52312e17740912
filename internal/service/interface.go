package service

import (
	"context"

	"github.com/alexivanou/weather-requests/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	GetForecast(ctx context.Context, query model.ForecastQuery) (*model.ForecastResponse, error)
	ListRequests(ctx context.Context, filter model.RequestFilter) ([]model.StoredRequest, error)
}

// ForecastProvider resolves cities and fetches raw forecasts
type ForecastProvider interface {
	ResolveCity(ctx context.Context, name string) (*model.GeoResult, error)
	FetchForecast(ctx context.Context, lat, lon float64, language, units string) (*model.RawForecastResponse, error)
}
