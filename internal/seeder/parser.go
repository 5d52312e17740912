package seeder

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/model"
)

const (
	defaultBatchSize = 500
	maxLineSize      = 4 * 1024 * 1024
)

// timestampLayouts are the accepted encodings of a history timestamp
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Parser reads request history exports
type Parser struct {
	batchSize int
}

// ImportResult summarises one import run
type ImportResult struct {
	Imported int
	Skipped  int
}

// historyRecord is one line of a JSON Lines export. The _id of the source
// store is ignored and a new one is assigned on insert.
type historyRecord struct {
	City      string                         `json:"city"`
	Language  string                         `json:"language"`
	Units     string                         `json:"units"`
	Forecast  []model.FormattedForecastEntry `json:"forecast"`
	Timestamp string                         `json:"timestamp"`
}

// NewParser creates a new parser instance with config
func NewParser(seederCfg config.SeederConfig) *Parser {
	batchSize := seederCfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Parser{batchSize: batchSize}
}

// ProcessRequests streams the export at path and hands the parsed requests to
// callback in batches. A .zip archive is read from its first .jsonl entry.
// Blank and malformed lines are skipped and counted.
func (p *Parser) ProcessRequests(path string, callback func(batch []model.StoredRequest) error) (ImportResult, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return p.processZip(path, callback)
	}

	file, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return p.processReader(file, callback)
}

func (p *Parser) processZip(zipPath string, callback func(batch []model.StoredRequest) error) (ImportResult, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".jsonl") {
			rc, err := f.Open()
			if err != nil {
				return ImportResult{}, fmt.Errorf("failed to open file in zip: %w", err)
			}
			defer rc.Close()
			return p.processReader(rc, callback)
		}
	}

	return ImportResult{}, fmt.Errorf("no jsonl file found in zip")
}

func (p *Parser) processReader(reader io.Reader, callback func(batch []model.StoredRequest) error) (ImportResult, error) {
	var result ImportResult

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	batch := make([]model.StoredRequest, 0, p.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := callback(batch); err != nil {
			return err
		}
		result.Imported += len(batch)
		batch = make([]model.StoredRequest, 0, p.batchSize)
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req, err := parseRecord([]byte(line))
		if err != nil {
			result.Skipped++
			continue
		}

		batch = append(batch, req)
		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				return result, fmt.Errorf("failed to store batch: %w", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to scan history: %w", err)
	}

	if err := flush(); err != nil {
		return result, fmt.Errorf("failed to store batch: %w", err)
	}

	return result, nil
}

func parseRecord(line []byte) (model.StoredRequest, error) {
	var rec historyRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return model.StoredRequest{}, err
	}
	if rec.City == "" {
		return model.StoredRequest{}, fmt.Errorf("record has no city")
	}

	ts, err := parseTimestamp(rec.Timestamp)
	if err != nil {
		return model.StoredRequest{}, err
	}

	forecast := rec.Forecast
	if forecast == nil {
		forecast = []model.FormattedForecastEntry{}
	}

	return model.StoredRequest{
		City:      rec.City,
		Language:  rec.Language,
		Units:     rec.Units,
		Forecast:  forecast,
		Timestamp: ts,
	}, nil
}

// parseTimestamp accepts RFC 3339 and naive ISO timestamps; naive ones are
// taken as UTC
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
