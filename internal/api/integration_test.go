package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/database"
	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/alexivanou/weather-requests/internal/repository"
	"github.com/alexivanou/weather-requests/internal/service"
	"github.com/alexivanou/weather-requests/internal/stats"
	"github.com/alexivanou/weather-requests/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const forecastFixture = `{"list":[
	{"dt_txt":"2022-01-01 12:00:00","main":{"temp":25.5,"temp_min":20,"temp_max":30,"humidity":80,"feels_like":23},"weather":[{"description":"nuvens dispersas"}]},
	{"dt_txt":"2022-01-01 15:00:00","main":{"temp":27,"humidity":75.5},"weather":[]}
]}`

// newFakeProvider serves geocoding and forecast responses; any city other
// than São Paulo is unknown
func newFakeProvider(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") != "São Paulo" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"name":"São Paulo","lat":-23.55,"lon":-46.63,"country":"BR"}]`))
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastFixture))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupIntegrationStack(t *testing.T) http.Handler {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dbName := fmt.Sprintf("testdb_%d", rng.Int())

	cfg := config.DBConfig{
		Type: config.DBTypeMemory,
		Name: dbName,
	}

	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg.Type))

	provider := newFakeProvider(t)
	logger := zap.NewNop()
	client := weather.NewClient(config.WeatherConfig{
		APIKey:             "test-key",
		BaseURL:            provider.URL,
		BreakerMaxFailures: 5,
		BreakerTimeout:     time.Minute,
	}, logger)

	repos := repository.NewRepositories(db, cfg.Type)
	svc := service.NewService(client, repos.Requests, logger)
	statsCollector := stats.NewCollector(repos.Requests, db, cfg)

	return NewRouter(svc, statsCollector, logger)
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func listRequests(t *testing.T, handler http.Handler, query string) []model.StoredRequest {
	rr := get(t, handler, "/requests"+query)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var reqs []model.StoredRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reqs))
	require.NotNil(t, reqs)
	return reqs
}

func TestAPI_Integration_Weather(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := get(t, handler, "/weather?city=S%C3%A3o%20Paulo")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var resp model.ForecastResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "São Paulo", resp.CityName)
	require.Len(t, resp.Forecasts, 2)
	assert.Equal(t, model.FormattedForecastEntry{
		Datetime:           "01/01/2022 12:00:00",
		Temperature:        "25.5°C",
		MinTemperature:     "20°C",
		MaxTemperature:     "30°C",
		Humidity:           "80%",
		FeelsLike:          "23°C",
		WeatherDescription: "Nuvens dispersas",
	}, resp.Forecasts[0])
	assert.Equal(t, model.FormattedForecastEntry{
		Datetime:           "01/01/2022 15:00:00",
		Temperature:        "27°C",
		MinTemperature:     "0°C",
		MaxTemperature:     "0°C",
		Humidity:           "N/A",
		FeelsLike:          "0°C",
		WeatherDescription: "N/A",
	}, resp.Forecasts[1])

	reqs := listRequests(t, handler, "?city=paulo")
	require.Len(t, reqs, 1)
	assert.Equal(t, "São Paulo", reqs[0].City)
	assert.Equal(t, "pt_br", reqs[0].Language)
	assert.Equal(t, "metric", reqs[0].Units)
	assert.Equal(t, resp.Forecasts, reqs[0].Forecast)
}

func TestAPI_Integration_InvalidCity(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := get(t, handler, "/weather?city=InvalidCity")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to get city data"}`, rr.Body.String())

	assert.Empty(t, listRequests(t, handler, ""))
}

func TestAPI_Integration_EmptyCityIsNotDefaulted(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := get(t, handler, "/weather?city=")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to get city data"}`, rr.Body.String())
}

func TestAPI_Integration_RepeatedRequestsAreAllStored(t *testing.T) {
	handler := setupIntegrationStack(t)

	for i := 0; i < 2; i++ {
		rr := get(t, handler, "/weather?city=S%C3%A3o%20Paulo&language=en")
		require.Equal(t, http.StatusOK, rr.Code)
	}

	reqs := listRequests(t, handler, "?language=EN")
	require.Len(t, reqs, 2)
	assert.NotEqual(t, reqs[0].ID, reqs[1].ID)
}

func TestAPI_Integration_RequestsDateFilter(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := get(t, handler, "/weather?city=S%C3%A3o%20Paulo")
	require.Equal(t, http.StatusOK, rr.Code)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Len(t, listRequests(t, handler, "?start_date="+today+"&end_date="+today), 1)
	assert.Empty(t, listRequests(t, handler, "?start_date=2022-01-31&end_date=2022-01-01"))
	assert.Empty(t, listRequests(t, handler, "?end_date=2000-01-01"))
	assert.Empty(t, listRequests(t, handler, "?city=nonexistentcity"))

	rr = get(t, handler, "/requests?start_date=yesterday")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAPI_Integration_EmptyHistory(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := get(t, handler, "/requests")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestAPI_Integration_Stats(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := get(t, handler, "/weather?city=S%C3%A3o%20Paulo")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = get(t, handler, "/stats")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp stats.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "memory", resp.Store.Type)
	assert.Equal(t, int64(1), resp.Store.TotalRequests)
	assert.Equal(t, []model.CityCount{{City: "São Paulo", Count: 1}}, resp.Store.Cities)
}
