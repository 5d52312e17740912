package repository

import (
	"context"
	"strconv"

	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgRequestRepository struct {
	db *sqlx.DB
}

func (r *pgRequestRepository) Save(ctx context.Context, req *model.StoredRequest) error {
	row := newRequestRow(*req)
	q := `
		INSERT INTO requests (city, city_search, language, units, forecast, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, q,
		row.City, row.CitySearch, row.Language, row.Units, row.Forecast, row.RequestedAt)
	if err != nil {
		return err
	}
	req.ID = strconv.FormatInt(id, 10)
	return nil
}

func (r *pgRequestRepository) BulkInsert(ctx context.Context, reqs []model.StoredRequest) error {
	// Chunking to avoid parameter limit issues even in PG (max 65535 parameters)
	chunkSize := 2000
	for i := 0; i < len(reqs); i += chunkSize {
		end := i + chunkSize
		if end > len(reqs) {
			end = len(reqs)
		}

		batch := make([]requestRow, 0, end-i)
		for _, req := range reqs[i:end] {
			batch = append(batch, newRequestRow(req))
		}

		if _, err := r.db.NamedExecContext(ctx, insertRequest, batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *pgRequestRepository) Find(ctx context.Context, filter model.RequestFilter) ([]model.StoredRequest, error) {
	where, args, ok := whereClause(filter, "strpos")
	if !ok {
		return []model.StoredRequest{}, nil
	}

	q := r.db.Rebind(selectRequests + where + " ORDER BY id")
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rowsToModels(rows), nil
}

func (r *pgRequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM requests"); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *pgRequestRepository) Stats(ctx context.Context) (*model.StoreStats, error) {
	return sqlStats(ctx, r.db)
}
