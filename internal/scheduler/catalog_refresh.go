package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianlake/fundbench/internal/modules/catalog"
)

const refreshTimeout = 2 * time.Minute

// RefreshMetrics records catalog refresh outcomes
type RefreshMetrics interface {
	CatalogRefreshed(recordCount int)
}

// CatalogRefreshJob re-reads the catalog source on a schedule so the
// dashboard picks up new benchmark data without a restart.
type CatalogRefreshJob struct {
	loader  *catalog.Loader
	metrics RefreshMetrics
	log     zerolog.Logger
}

// NewCatalogRefreshJob creates a new catalog refresh job
func NewCatalogRefreshJob(loader *catalog.Loader, metrics RefreshMetrics, log zerolog.Logger) *CatalogRefreshJob {
	return &CatalogRefreshJob{
		loader:  loader,
		metrics: metrics,
		log:     log.With().Str("job", "catalog_refresh").Logger(),
	}
}

// Name returns the job name
func (j *CatalogRefreshJob) Name() string {
	return "catalog_refresh"
}

// Run refreshes the catalog once
func (j *CatalogRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	refreshed, err := j.loader.Refresh(ctx)
	if err != nil {
		return err
	}

	if j.metrics != nil {
		j.metrics.CatalogRefreshed(len(refreshed.Records))
	}

	j.log.Info().Int("records", len(refreshed.Records)).Msg("Catalog refreshed")
	return nil
}
