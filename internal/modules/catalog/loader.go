package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianlake/fundbench/internal/events"
)

// SourceFetcher retrieves raw catalog bytes from a source location
type SourceFetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Loader loads the fund catalog and memoizes it per source.
// Repeated Load calls return the same snapshot without re-reading storage;
// Refresh forces a re-read and swaps the snapshot atomically.
type Loader struct {
	fetcher   SourceFetcher
	snapshots *SnapshotRepository
	eventBus  *events.Bus
	source    string
	sheet     string
	log       zerolog.Logger

	mu      sync.RWMutex
	current *Catalog
}

// LoaderConfig holds loader dependencies
type LoaderConfig struct {
	Fetcher   SourceFetcher
	Snapshots *SnapshotRepository // optional, enables degraded start
	EventBus  *events.Bus         // optional
	Source    string
	Sheet     string
	Log       zerolog.Logger
}

// NewLoader creates a new catalog loader
func NewLoader(cfg LoaderConfig) *Loader {
	return &Loader{
		fetcher:   cfg.Fetcher,
		snapshots: cfg.Snapshots,
		eventBus:  cfg.EventBus,
		source:    cfg.Source,
		sheet:     cfg.Sheet,
		log:       cfg.Log.With().Str("component", "catalog_loader").Logger(),
	}
}

// Current returns the cached catalog, or nil when nothing has been loaded yet
func (l *Loader) Current() *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Load returns the cached catalog, reading the source only on first call.
// If the source is unreachable and a stored snapshot exists, the snapshot
// is served instead.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	if cached := l.Current(); cached != nil {
		return cached, nil
	}

	loaded, err := l.Refresh(ctx)
	if err == nil {
		return loaded, nil
	}

	// Degraded start: serve the last good snapshot if one exists
	if l.snapshots != nil {
		stored, snapErr := l.snapshots.GetLatest(l.source)
		if snapErr == nil && stored != nil {
			l.log.Warn().
				Err(err).
				Str("source", l.source).
				Time("snapshot_time", stored.LoadedAt).
				Msg("Source unreachable, serving stored snapshot")
			l.swap(stored)
			return stored, nil
		}
	}

	return nil, err
}

// Refresh re-reads the source and swaps the cached catalog
func (l *Loader) Refresh(ctx context.Context) (*Catalog, error) {
	data, err := l.fetcher.Fetch(ctx, l.source)
	if err != nil {
		l.publishFailure(err)
		return nil, fmt.Errorf("failed to fetch catalog source: %w", err)
	}

	records, err := l.parse(data)
	if err != nil {
		l.publishFailure(err)
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	sum := sha256.Sum256(data)
	loaded := &Catalog{
		Records:  records,
		Source:   l.source,
		Checksum: hex.EncodeToString(sum[:]),
		LoadedAt: time.Now().UTC(),
	}

	l.swap(loaded)

	if l.snapshots != nil {
		if err := l.snapshots.Save(loaded); err != nil {
			// The in-memory catalog is already live; losing the snapshot only
			// affects the next degraded start.
			l.log.Error().Err(err).Msg("Failed to persist catalog snapshot")
		}
	}

	if l.eventBus != nil {
		l.eventBus.Publish(events.CatalogRefreshed, &events.CatalogRefreshedData{
			Source:      loaded.Source,
			RecordCount: len(loaded.Records),
			Checksum:    loaded.Checksum,
		})
	}

	l.log.Info().
		Str("source", l.source).
		Int("records", len(records)).
		Msg("Catalog loaded")

	return loaded, nil
}

// parse picks the format from the source's extension
func (l *Loader) parse(data []byte) ([]FundRecord, error) {
	ext := strings.ToLower(path.Ext(strings.SplitN(l.source, "?", 2)[0]))
	switch ext {
	case ".xlsx", ".xlsm":
		return ParseXLSX(data, l.sheet)
	case ".csv":
		return ParseCSV(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
}

func (l *Loader) swap(c *Catalog) {
	l.mu.Lock()
	l.current = c
	l.mu.Unlock()
}

func (l *Loader) publishFailure(err error) {
	if l.eventBus == nil {
		return
	}
	l.eventBus.Publish(events.CatalogLoadFailed, &events.CatalogLoadFailedData{
		Source: l.source,
		Error:  err.Error(),
	})
}
