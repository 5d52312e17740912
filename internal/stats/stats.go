package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/alexivanou/weather-requests/internal/repository"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time    `json:"timestamp"`
	Memory    MemoryStats  `json:"memory"`
	Store     StoreStats   `json:"store"`
	Runtime   RuntimeStats `json:"runtime"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	NumGC        uint32 `json:"num_gc"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapSys      uint64 `json:"heap_sys"`
	HeapInuse    uint64 `json:"heap_inuse"`
	HeapReleased uint64 `json:"heap_released"`
}

type StoreStats struct {
	Type          string            `json:"type"`
	TotalRequests int64             `json:"total_requests"`
	SizeBytes     int64             `json:"size_bytes,omitempty"`
	Cities        []model.CityCount `json:"cities"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

type Collector struct {
	requests   repository.RequestRepository
	db         *sqlx.DB
	config     config.DBConfig
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var (
	memStatsCacheDuration = 5 * time.Second
)

// NewCollector creates a collector over the request store. db is only used
// to report the on-disk size and may be nil for document stores.
func NewCollector(requests repository.RequestRepository, db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		requests:  requests,
		db:        db,
		config:    cfg,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now().UTC(),
	}

	stats.Memory = c.collectMemoryStats()

	storeStats, err := c.collectStoreStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Store = *storeStats
	stats.Runtime = c.collectRuntimeStats()

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapInuse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectStoreStats(ctx context.Context) (*StoreStats, error) {
	summary, err := c.requests.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get store stats: %w", err)
	}

	stats := &StoreStats{
		Type:          string(c.config.Type),
		TotalRequests: summary.TotalRequests,
		Cities:        summary.Cities,
	}
	if stats.Cities == nil {
		stats.Cities = []model.CityCount{}
	}

	if size, err := c.getDatabaseSize(ctx); err == nil {
		stats.SizeBytes = size
	}

	return stats, nil
}

func (c *Collector) getDatabaseSize(ctx context.Context) (int64, error) {
	if c.db == nil {
		return 0, fmt.Errorf("no sql database for store type %s", c.config.Type)
	}

	var size int64
	var err error

	if c.config.Type == config.DBTypePostgreSQL {
		err = c.db.GetContext(ctx, &size, "SELECT pg_database_size(current_database())")
	} else {
		err = c.db.GetContext(ctx, &size, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	}

	if err != nil {
		return 0, err
	}
	return size, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}
