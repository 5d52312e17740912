package weather

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/alexivanou/weather-requests/internal/model"
)

const (
	notAvailable = "N/A"

	providerLayout = "2006-01-02 15:04:05"
	displayLayout  = "02/01/2006 15:04:05"
)

// FormatEntry maps one raw forecast entry to its display form. It never
// fails: anything missing or malformed becomes "N/A".
//
// A missing temperature is "N/A" while a missing min, max, feels-like or
// humidity counts as 0. Humidity is only rendered for integer literals.
// Booleans in any numeric slot render as "True" or "False".
func FormatEntry(entry model.RawForecastEntry) model.FormattedForecastEntry {
	main := model.RawMain{}
	if entry.Main != nil {
		main = *entry.Main
	}

	return model.FormattedForecastEntry{
		Datetime:           formatDatetime(entry.DtTxt),
		Temperature:        formatNumber(main.Temp, false, "°C"),
		MinTemperature:     formatNumber(main.TempMin, true, "°C"),
		MaxTemperature:     formatNumber(main.TempMax, true, "°C"),
		Humidity:           formatHumidity(main.Humidity),
		FeelsLike:          formatNumber(main.FeelsLike, true, "°C"),
		WeatherDescription: formatDescription(entry.Weather),
	}
}

// FormatEntries maps every entry of a forecast. The result is never nil.
func FormatEntries(entries []model.RawForecastEntry) []model.FormattedForecastEntry {
	formatted := make([]model.FormattedForecastEntry, 0, len(entries))
	for _, entry := range entries {
		formatted = append(formatted, FormatEntry(entry))
	}
	return formatted
}

func formatDatetime(f model.Field) string {
	s, ok := f.Text()
	if !ok {
		return notAvailable
	}
	t, err := time.Parse(providerLayout, s)
	if err != nil {
		return notAvailable
	}
	return t.Format(displayLayout)
}

func formatNumber(f model.Field, zeroWhenMissing bool, suffix string) string {
	if !f.Set {
		if zeroWhenMissing {
			return "0" + suffix
		}
		return notAvailable
	}
	if b, ok := f.Bool(); ok {
		return boolText(b) + suffix
	}
	n, ok := f.Number()
	if !ok {
		return notAvailable
	}
	s, ok := numberText(n.String())
	if !ok {
		return notAvailable
	}
	return s + suffix
}

func formatHumidity(f model.Field) string {
	if !f.Set {
		return "0%"
	}
	if b, ok := f.Bool(); ok {
		return boolText(b) + "%"
	}
	if !f.IsInteger() {
		return notAvailable
	}
	n, _ := f.Number()
	s, ok := numberText(n.String())
	if !ok {
		return notAvailable
	}
	return s + "%"
}

func formatDescription(items []model.RawWeather) string {
	if len(items) == 0 {
		return notAvailable
	}
	d := items[0].Description
	if !d.Set {
		return ""
	}
	s, ok := d.Text()
	if !ok {
		return notAvailable
	}
	return capitalize(s)
}

// numberText renders a JSON number literal. Integer literals are printed
// as-is; floats use the shortest round-trip form and always keep a decimal
// point or exponent, so 25.0 stays "25.0".
func numberText(literal string) (string, bool) {
	if !strings.ContainsAny(literal, ".eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		// beyond int64, the literal is already canonical
		return literal, literal != ""
	}

	v, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return "", false
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64), true
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, true
}

func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// capitalize upper-cases the first rune and lower-cases the rest
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
