package model

import "time"

// Query defaults applied when a parameter is absent from the request
const (
	DefaultCity     = "Brasilia"
	DefaultLanguage = "pt_br"
	DefaultUnits    = "metric"
)

// ForecastQuery represents the parameters of a forecast request
type ForecastQuery struct {
	City     string
	Language string
	Units    string
}

// GeoResult is the first match of a geocoding lookup
type GeoResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Country   string  `json:"country,omitempty"`
	State     string  `json:"state,omitempty"`
}

// RawForecastResponse is the provider's forecast payload
type RawForecastResponse struct {
	List []RawForecastEntry `json:"list"`
}

// RawForecastEntry is one time slot of the provider forecast. Every leaf is
// optional; defaults are applied by the formatter.
type RawForecastEntry struct {
	DtTxt   Field        `json:"dt_txt"`
	Main    *RawMain     `json:"main"`
	Weather []RawWeather `json:"weather"`
}

// RawMain holds the temperature and humidity block of a forecast entry
type RawMain struct {
	Temp      Field `json:"temp"`
	TempMin   Field `json:"temp_min"`
	TempMax   Field `json:"temp_max"`
	Humidity  Field `json:"humidity"`
	FeelsLike Field `json:"feels_like"`
}

// RawWeather is one weather condition of a forecast entry
type RawWeather struct {
	Description Field `json:"description"`
}

// FormattedForecastEntry is a display-ready forecast entry
type FormattedForecastEntry struct {
	Datetime           string `json:"datetime" bson:"datetime"`
	Temperature        string `json:"temperature" bson:"temperature"`
	MinTemperature     string `json:"min_temperature" bson:"min_temperature"`
	MaxTemperature     string `json:"max_temperature" bson:"max_temperature"`
	Humidity           string `json:"humidity" bson:"humidity"`
	FeelsLike          string `json:"feels_like" bson:"feels_like"`
	WeatherDescription string `json:"weather_description" bson:"weather_description"`
}

// StoredRequest is one persisted forecast request
type StoredRequest struct {
	ID        string                   `json:"_id"`
	City      string                   `json:"city"`
	Language  string                   `json:"language"`
	Units     string                   `json:"units"`
	Forecast  []FormattedForecastEntry `json:"forecast"`
	Timestamp time.Time                `json:"timestamp"`
}

// RequestFilter selects stored requests. City is a case-insensitive
// substring, Language and Units are case-insensitive exact matches, and the
// timestamp range is [Start, End). Fields are literal equality filters on
// any other stored field.
type RequestFilter struct {
	City     string
	Language string
	Units    string
	Start    *time.Time
	End      *time.Time
	Fields   map[string]string
}
