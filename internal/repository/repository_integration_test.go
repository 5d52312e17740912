//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/database"
	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a test database connection
// This requires a running PostgreSQL instance
func setupTestDB(t *testing.T) *sqlx.DB {
	cfg := config.DBConfig{
		Type:     config.DBTypePostgreSQL,
		Host:     getenv("TEST_DB_HOST", "localhost"),
		Port:     getenv("TEST_DB_PORT", "5432"),
		User:     getenv("TEST_DB_USER", "weather"),
		Password: getenv("TEST_DB_PASSWORD", "weather_password"),
		Name:     getenv("TEST_DB_NAME", "weather_requests_test"),
		SSLMode:  "disable",
	}

	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, cfg.Type))

	_, err = db.Exec("TRUNCATE requests RESTART IDENTITY")
	require.NoError(t, err)

	return db
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func exerciseRepository(t *testing.T, repo RequestRepository) {
	ctx := context.Background()

	req := &model.StoredRequest{
		City:      "São Paulo",
		Language:  "pt_br",
		Units:     "metric",
		Forecast:  []model.FormattedForecastEntry{{Datetime: "01/01/2022 12:00:00", Temperature: "25°C"}},
		Timestamp: time.Date(2022, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, req))
	require.NotEmpty(t, req.ID)

	t.Run("Find by city substring", func(t *testing.T) {
		found, err := repo.Find(ctx, model.RequestFilter{City: "paulo"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, req.Forecast, found[0].Forecast)
	})

	t.Run("Find by date range", func(t *testing.T) {
		start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC)
		found, err := repo.Find(ctx, model.RequestFilter{Start: &start, End: &end, Language: "PT_BR"})
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalRequests)
	})
}

func TestPostgresRequestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	repos := NewRepositories(db, config.DBTypePostgreSQL)
	exerciseRepository(t, repos.Requests)
}

// This requires a running MongoDB instance
func TestMongoRequestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg := config.DBConfig{
		Type:       config.DBTypeMongo,
		MongoURI:   getenv("TEST_MONGODB_URI", "mongodb://localhost:27017"),
		Name:       "weather_requests_test",
		Collection: "requests",
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, cfg)
	require.NoError(t, err)
	defer client.Disconnect(ctx)
	require.NoError(t, database.PingMongo(ctx, client))

	db := client.Database(cfg.Name)
	require.NoError(t, db.Collection(cfg.Collection).Drop(ctx))

	repos := NewMongoRepositories(db, cfg.Collection)
	exerciseRepository(t, repos.Requests)
}
