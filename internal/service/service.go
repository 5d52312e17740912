package service

import (
	"time"

	"github.com/alexivanou/weather-requests/internal/repository"
	"go.uber.org/zap"
)

// Service provides business logic for the API
type Service struct {
	provider ForecastProvider
	requests repository.RequestRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new service instance
func NewService(
	provider ForecastProvider,
	requests repository.RequestRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		requests: requests,
		logger:   logger,
		now:      time.Now,
	}
}
