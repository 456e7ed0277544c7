package datasource

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seenimoa/stockpicker/pkg/models"
)

//go:embed industries.json
var builtinIndustries []byte

// DefaultIndustryCacheMaxAge is how long a saved taxonomy is trusted.
const DefaultIndustryCacheMaxAge = 7 * 24 * time.Hour

// BuiltinIndustryMap returns Yahoo's sector to industry classification with
// each sector's industries sorted.
func BuiltinIndustryMap() models.SectorMap {
	var raw map[string][]string
	if err := json.Unmarshal(builtinIndustries, &raw); err != nil {
		panic(fmt.Sprintf("datasource: embedded industry map: %v", err))
	}
	out := make(models.SectorMap, len(raw))
	for sector, industries := range raw {
		sorted := append([]string(nil), industries...)
		sort.Strings(sorted)
		out[sector] = sorted
	}
	return out
}

type industryCacheFile struct {
	Timestamp float64          `json:"timestamp"` // unix seconds
	Sectors   models.SectorMap `json:"sectors"`
}

// Taxonomy serves the sector to industry map, persisted to a JSON cache
// file and rebuilt from the built-in map when the file is missing or stale.
type Taxonomy struct {
	path   string
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sectors  models.SectorMap
	loadedAt time.Time
}

// NewTaxonomy creates a taxonomy backed by the cache file at path. An empty
// path disables persistence.
func NewTaxonomy(path string, maxAge time.Duration, logger *zap.Logger) *Taxonomy {
	if maxAge <= 0 {
		maxAge = DefaultIndustryCacheMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Taxonomy{path: path, maxAge: maxAge, logger: logger, now: time.Now}
}

// Industries returns the sector map, preferring memory, then a fresh cache
// file, then the built-in map (which is saved back to the file).
func (t *Taxonomy) Industries(_ context.Context) (models.SectorMap, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sectors != nil && t.now().Sub(t.loadedAt) <= t.maxAge {
		return t.sectors, nil
	}
	if cached, ts, ok := t.load(); ok {
		t.sectors, t.loadedAt = cached, ts
		return cached, nil
	}
	t.rebuild()
	return t.sectors, nil
}

// Refresh discards any cached map and rebuilds it.
func (t *Taxonomy) Refresh(_ context.Context) (models.SectorMap, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebuild()
	return t.sectors, nil
}

func (t *Taxonomy) rebuild() {
	t.sectors = BuiltinIndustryMap()
	t.loadedAt = t.now()
	t.save(t.sectors, t.loadedAt)
}

// load reads the cache file; any failure or an expired timestamp is a miss.
func (t *Taxonomy) load() (models.SectorMap, time.Time, bool) {
	if t.path == "" {
		return nil, time.Time{}, false
	}
	data, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.logger.Warn("read industry cache", zap.String("path", t.path), zap.Error(err))
		}
		return nil, time.Time{}, false
	}

	var f industryCacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		t.logger.Warn("corrupt industry cache", zap.String("path", t.path), zap.Error(err))
		return nil, time.Time{}, false
	}
	sec, frac := math.Modf(f.Timestamp)
	ts := time.Unix(int64(sec), int64(frac*1e9))
	if t.now().Sub(ts) > t.maxAge || f.Sectors == nil {
		t.logger.Debug("industry cache expired", zap.Time("saved_at", ts))
		return nil, time.Time{}, false
	}
	return f.Sectors, ts, true
}

// save writes the cache file. Failures are logged and otherwise ignored.
func (t *Taxonomy) save(sectors models.SectorMap, at time.Time) {
	if t.path == "" {
		return
	}
	f := industryCacheFile{
		Timestamp: float64(at.UnixNano()) / 1e9,
		Sectors:   sectors,
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		t.logger.Warn("create industry cache dir", zap.String("path", t.path), zap.Error(err))
		return
	}
	out, err := os.Create(t.path)
	if err != nil {
		t.logger.Warn("write industry cache", zap.String("path", t.path), zap.Error(err))
		return
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f); err != nil {
		t.logger.Warn("encode industry cache", zap.String("path", t.path), zap.Error(err))
	}
}
