package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexivanou/weather-requests/internal/model"
)

const selectRequests = `
	SELECT id, city, language, units, forecast, requested_at
	FROM requests`

// forecastColumn stores the formatted forecast as a JSON document
type forecastColumn []model.FormattedForecastEntry

func (f forecastColumn) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]model.FormattedForecastEntry(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *forecastColumn) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*f = forecastColumn{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported forecast column type %T", src)
	}

	entries := []model.FormattedForecastEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode forecast column: %w", err)
	}
	*f = entries
	return nil
}

type requestRow struct {
	ID          int64          `db:"id"`
	City        string         `db:"city"`
	CitySearch  string         `db:"city_search"`
	Language    string         `db:"language"`
	Units       string         `db:"units"`
	Forecast    forecastColumn `db:"forecast"`
	RequestedAt time.Time      `db:"requested_at"`
}

func newRequestRow(req model.StoredRequest) requestRow {
	return requestRow{
		City:        req.City,
		CitySearch:  strings.ToLower(req.City),
		Language:    req.Language,
		Units:       req.Units,
		Forecast:    forecastColumn(req.Forecast),
		RequestedAt: req.Timestamp.UTC(),
	}
}

func (r requestRow) toModel() model.StoredRequest {
	forecast := []model.FormattedForecastEntry(r.Forecast)
	if forecast == nil {
		forecast = []model.FormattedForecastEntry{}
	}
	return model.StoredRequest{
		ID:        strconv.FormatInt(r.ID, 10),
		City:      r.City,
		Language:  r.Language,
		Units:     r.Units,
		Forecast:  forecast,
		Timestamp: r.RequestedAt.UTC(),
	}
}

func rowsToModels(rows []requestRow) []model.StoredRequest {
	result := make([]model.StoredRequest, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result
}

// whereClause translates a filter into a WHERE clause with "?" placeholders.
// containsFn is the dialect's substring position function. ok is false when
// the filter can never match, because it names a field the table does not
// hold as a plain string column.
func whereClause(filter model.RequestFilter, containsFn string) (clause string, args []any, ok bool) {
	if len(filter.Fields) > 0 {
		return "", nil, false
	}

	var conds []string
	if filter.City != "" {
		conds = append(conds, containsFn+"(city_search, ?) > 0")
		args = append(args, strings.ToLower(filter.City))
	}
	if filter.Language != "" {
		conds = append(conds, "LOWER(language) = ?")
		args = append(args, strings.ToLower(filter.Language))
	}
	if filter.Units != "" {
		conds = append(conds, "LOWER(units) = ?")
		args = append(args, strings.ToLower(filter.Units))
	}
	if filter.Start != nil {
		conds = append(conds, "requested_at >= ?")
		args = append(args, filter.Start.UTC())
	}
	if filter.End != nil {
		conds = append(conds, "requested_at < ?")
		args = append(args, filter.End.UTC())
	}

	if len(conds) == 0 {
		return "", args, true
	}
	return " WHERE " + strings.Join(conds, " AND "), args, true
}
