package database

import (
	"context"
	"fmt"
	"time"

	"github.com/alexivanou/weather-requests/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoPingTimeout = 5 * time.Second

// Connect creates a SQL database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	var driverName string

	switch cfg.Type {
	case config.DBTypeMemory, config.DBTypeSQLite:
		driverName = "sqlite3"
	case config.DBTypePostgreSQL:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("database type %q is not a SQL database", cfg.Type)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A shared-cache in-memory database lives as long as one connection does,
	// and a single connection avoids table lock contention
	if cfg.IsMemory() {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// ConnectMongo creates a MongoDB client. The driver connects lazily, so an
// unreachable server only surfaces through Ping or the first operation.
func ConnectMongo(ctx context.Context, cfg config.DBConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return client, nil
}

// PingMongo checks that the MongoDB server answers
func PingMongo(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer cancel()
	return client.Ping(ctx, nil)
}
