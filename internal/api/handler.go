package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/alexivanou/weather-requests/internal/service"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// GetWeather handles GET /weather
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	query := forecastQuery(r.URL.Query())

	response, err := h.service.GetForecast(r.Context(), query)
	if err != nil {
		h.logger.Error("Error getting forecast", zap.String("city", query.City), zap.Error(err))
		writeError(w, h.logger, forecastErrorMessage(err))
		return
	}

	writeJSON(w, h.logger, http.StatusOK, response)
}

// ListRequests handles GET /requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRequestFilter(r.URL.Query())
	if err != nil {
		h.logger.Error("Error parsing request filter", zap.Error(err))
		writeError(w, h.logger, err.Error())
		return
	}

	requests, err := h.service.ListRequests(r.Context(), filter)
	if err != nil {
		h.logger.Error("Error listing requests", zap.Error(err))
		writeError(w, h.logger, err.Error())
		return
	}

	writeJSON(w, h.logger, http.StatusOK, requests)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// forecastQuery reads the /weather parameters. A default only replaces an
// absent parameter; an empty one is passed on as is.
func forecastQuery(values url.Values) model.ForecastQuery {
	param := func(key, def string) string {
		if !values.Has(key) {
			return def
		}
		return values.Get(key)
	}
	return model.ForecastQuery{
		City:     param("city", model.DefaultCity),
		Language: param("language", model.DefaultLanguage),
		Units:    param("units", model.DefaultUnits),
	}
}

// forecastErrorMessage collapses provider failures to their fixed messages
func forecastErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrCityData):
		return service.ErrCityData.Error()
	case errors.Is(err, service.ErrWeatherData):
		return service.ErrWeatherData.Error()
	default:
		return err.Error()
	}
}

// parseRequestFilter turns the query string of /requests into a filter.
// start_date and end_date bound the timestamp to [start, end+1 day); every
// other key is lower-cased together with its value.
func parseRequestFilter(values url.Values) (model.RequestFilter, error) {
	var filter model.RequestFilter

	if raw := values.Get("start_date"); raw != "" {
		start, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", raw)
		}
		filter.Start = &start
	}
	if raw := values.Get("end_date"); raw != "" {
		end, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", raw)
		}
		end = end.AddDate(0, 0, 1)
		filter.End = &end
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "start_date" || key == "end_date" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := strings.ToLower(key)
		value := strings.ToLower(values.Get(key))

		switch name {
		case "city":
			filter.City = value
		case "language":
			filter.Language = value
		case "units":
			filter.Units = value
		default:
			if filter.Fields == nil {
				filter.Fields = make(map[string]string)
			}
			filter.Fields[name] = value
		}
	}

	return filter, nil
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, message string) {
	writeJSON(w, logger, http.StatusInternalServerError, model.ErrorResponse{Error: message})
}
