package repository

import (
	"context"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequestRepository defines operations for stored forecast requests
type RequestRepository interface {
	Save(ctx context.Context, req *model.StoredRequest) error
	BulkInsert(ctx context.Context, reqs []model.StoredRequest) error
	Find(ctx context.Context, filter model.RequestFilter) ([]model.StoredRequest, error)
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*model.StoreStats, error)
}

// Container holds all repositories
type Container struct {
	Requests RequestRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			Requests: &pgRequestRepository{db: db},
		}
	}

	// Default to SQLite
	return &Container{
		Requests: &sqliteRequestRepository{db: db},
	}
}

// NewMongoRepositories creates repositories backed by a MongoDB database
func NewMongoRepositories(db *mongo.Database, collection string) *Container {
	return &Container{
		Requests: &mongoRequestRepository{coll: db.Collection(collection)},
	}
}

// IsStoreEmpty reports whether no request has been stored yet
func IsStoreEmpty(ctx context.Context, repo RequestRepository) (bool, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
