package api

import (
	"github.com/alexivanou/weather-requests/internal/service"
	"github.com/alexivanou/weather-requests/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(RequestID, AccessLog(logger), Recover(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	router.HandleFunc("/weather", handler.GetWeather).Methods("GET")
	router.HandleFunc("/requests", handler.ListRequests).Methods("GET")
	router.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
