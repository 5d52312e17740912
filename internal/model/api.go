package model

// ForecastResponse represents the response of the weather endpoint
type ForecastResponse struct {
	CityName  string                   `json:"city_name"`
	Forecasts []FormattedForecastEntry `json:"forecasts"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StoreStats summarises the request history
type StoreStats struct {
	TotalRequests int64       `json:"total_requests"`
	Cities        []CityCount `json:"cities"`
}

// CityCount is the number of stored requests for one city
type CityCount struct {
	City  string `json:"city" db:"city" bson:"_id"`
	Count int64  `json:"count" db:"count" bson:"count"`
}
