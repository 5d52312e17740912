package repository

import (
	"context"
	"strconv"

	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/jmoiron/sqlx"
)

const insertRequest = `
	INSERT INTO requests (city, city_search, language, units, forecast, requested_at)
	VALUES (:city, :city_search, :language, :units, :forecast, :requested_at)`

type sqliteRequestRepository struct {
	db *sqlx.DB
}

func (r *sqliteRequestRepository) Save(ctx context.Context, req *model.StoredRequest) error {
	res, err := r.db.NamedExecContext(ctx, insertRequest, newRequestRow(*req))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = strconv.FormatInt(id, 10)
	return nil
}

func (r *sqliteRequestRepository) BulkInsert(ctx context.Context, reqs []model.StoredRequest) error {
	// SQLite variable limit workaround (batch size of 100 * 6 params = 600 variables, well within standard limits)
	chunkSize := 100
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

func (r *sqliteRequestRepository) Find(ctx context.Context, filter model.RequestFilter) ([]model.StoredRequest, error) {
	where, args, ok := whereClause(filter, "instr")
	if !ok {
		return []model.StoredRequest{}, nil
	}

	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, selectRequests+where+" ORDER BY id", args...); err != nil {
		return nil, err
	}
	return rowsToModels(rows), nil
}

func (r *sqliteRequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM requests"); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sqliteRequestRepository) Stats(ctx context.Context) (*model.StoreStats, error) {
	return sqlStats(ctx, r.db)
}

func sqlStats(ctx context.Context, db *sqlx.DB) (*model.StoreStats, error) {
	q := `
		SELECT city, COUNT(*) AS count
		FROM requests
		GROUP BY city
		ORDER BY count DESC, city
	`
	cities := []model.CityCount{}
	if err := db.SelectContext(ctx, &cities, q); err != nil {
		return nil, err
	}

	stats := &model.StoreStats{Cities: cities}
	for _, c := range cities {
		stats.TotalRequests += c.Count
	}
	return stats, nil
}
