package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/database"
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store is an open request store together with its underlying connection
type Store struct {
	*Container
	SQL   *sqlx.DB
	Mongo *mongo.Client
}

// Open connects to the configured backend. SQL stores are pinged and
// migrated and fail hard. A MongoDB server that does not answer the initial
// ping is only logged: the store stays usable and later calls report the
// error.
func Open(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*Store, error) {
	if cfg.Type == config.DBTypeMongo {
		client, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := database.PingMongo(ctx, client); err != nil {
			logger.Error("Failed to ping mongodb", zap.String("uri", cfg.MongoURI), zap.Error(err))
		} else {
			logger.Info("Connected to database", zap.String("type", string(cfg.Type)))
		}
		return &Store{
			Container: NewMongoRepositories(client.Database(cfg.Name), cfg.Collection),
			Mongo:     client,
		}, nil
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := database.Migrate(db, cfg.Type); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.Type)))

	return &Store{
		Container: NewRepositories(db, cfg.Type),
		SQL:       db,
	}, nil
}

// Close releases the underlying connection
func (s *Store) Close(ctx context.Context) error {
	if s.Mongo != nil {
		return s.Mongo.Disconnect(ctx)
	}
	if s.SQL != nil {
		return s.SQL.Close()
	}
	return nil
}
