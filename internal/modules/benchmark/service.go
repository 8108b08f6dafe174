package benchmark

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/meridianlake/fundbench/internal/modules/catalog"
)

// recentVintageWindow is the number of most recent calendar years for which
// IRR is excluded (return metrics are not meaningful that early in a fund's life)
const recentVintageWindow = 3

// CatalogProvider supplies the read-only fund catalog
type CatalogProvider interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Service runs benchmark queries against the fund catalog.
// Queries are pure: the catalog is never mutated and results are
// deterministic given the catalog and query.
type Service struct {
	catalog CatalogProvider
	yearFn  func() int
	log     zerolog.Logger
}

// NewService creates a new benchmark service
func NewService(catalogProvider CatalogProvider, log zerolog.Logger) *Service {
	return &Service{
		catalog: catalogProvider,
		yearFn:  func() int { return time.Now().Year() },
		log:     log.With().Str("service", "benchmark").Logger(),
	}
}

// WithYearFunc overrides the current-year clock, used by tests and the
// options endpoint
func (s *Service) WithYearFunc(yearFn func() int) *Service {
	s.yearFn = yearFn
	return s
}

// CurrentYear returns the engine's notion of the current calendar year
func (s *Service) CurrentYear() int {
	return s.yearFn()
}

// ApplicableMetrics returns the metric set evaluated for a vintage.
// Vintages within the most recent window exclude IRR.
func (s *Service) ApplicableMetrics(vintage int) []string {
	if vintage > s.yearFn()-recentVintageWindow {
		return []string{catalog.MetricNetTVPI, catalog.MetricNetDPI}
	}
	return append([]string(nil), catalog.AllMetrics...)
}

// Run validates a query, filters the catalog, and computes per-metric
// benchmark statistics over the matching peer set.
func (s *Service) Run(ctx context.Context, query Query) (*Result, error) {
	// Validation happens before any filtering
	assetClasses, regions, sizeRange, err := s.resolveSelectors(query)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(query.FundName) == "" {
		return nil, fmt.Errorf("%w: fund name is required", ErrValidation)
	}

	metricNames := s.ApplicableMetrics(query.Vintage)
	if len(metricNames) == 0 {
		return nil, ErrNoMetrics
	}

	if missing := missingMetrics(query, metricNames); len(missing) > 0 {
		return nil, fmt.Errorf("%w: please provide values for: %s",
			ErrValidation, strings.Join(missing, ", "))
	}

	cat, err := s.catalog.Load(ctx)
	if err != nil || cat == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCatalog, err)
	}

	matches := filterRecords(cat.Records, assetClasses, query.Vintage, regions, sizeRange)

	result := &Result{
		FundName:   query.FundName,
		AssetClass: query.AssetClass,
		Vintage:    query.Vintage,
		Regions:    regions,
		MatchCount: len(matches),
	}

	// Empty peer set is a reportable condition, not an error
	if len(matches) == 0 {
		s.log.Debug().
			Str("asset_class", query.AssetClass).
			Int("vintage", query.Vintage).
			Str("geography", query.Geography).
			Str("fund_size", query.FundSize).
			Msg("No funds match the selected filters")
		return result, nil
	}

	result.Benchmarks = make([]MetricBenchmark, 0, len(metricNames))
	for _, metric := range metricNames {
		values := metricValues(matches, metric)
		result.Benchmarks = append(result.Benchmarks, MetricBenchmark{
			Metric:      metric,
			TopDecile:   quantile(values, 0.90),
			TopQuartile: quantile(values, 0.75),
			Average:     mean(values),
			SampleSize:  len(values),
			UserValue:   query.metricValue(metric),
		})
	}

	s.log.Info().
		Str("fund", query.FundName).
		Int("vintage", query.Vintage).
		Int("matches", len(matches)).
		Msg("Benchmark computed")

	return result, nil
}

// resolveSelectors maps selector labels through the static lookup tables
func (s *Service) resolveSelectors(query Query) (assetClasses, regions []string, sizeRange SizeRange, err error) {
	assetClasses, ok := resolveAssetClass(query.AssetClass)
	if !ok {
		return nil, nil, SizeRange{}, fmt.Errorf("%w: unknown asset class %q", ErrValidation, query.AssetClass)
	}

	regions, ok = resolveGeography(query.Geography)
	if !ok {
		return nil, nil, SizeRange{}, fmt.Errorf("%w: unknown geography %q", ErrValidation, query.Geography)
	}

	sizeRange, ok = resolveSizeBucket(query.AssetClass, query.FundSize)
	if !ok {
		return nil, nil, SizeRange{}, fmt.Errorf("%w: unknown fund size %q for %s", ErrValidation, query.FundSize, query.AssetClass)
	}

	if query.Vintage < earliestVintage || query.Vintage > s.yearFn() {
		return nil, nil, SizeRange{}, fmt.Errorf("%w: vintage %d out of range", ErrValidation, query.Vintage)
	}

	return assetClasses, regions, sizeRange, nil
}

// missingMetrics returns applicable metrics the caller left unset.
// A zero value counts as unset, matching the dashboard's number inputs.
func missingMetrics(query Query, metricNames []string) []string {
	var missing []string
	for _, name := range metricNames {
		if query.metricValue(name) == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// filterRecords applies the four-predicate conjunction.
// Size bounds are inclusive on both ends.
func filterRecords(records []catalog.FundRecord, assetClasses []string, vintage int, regions []string, sizeRange SizeRange) []catalog.FundRecord {
	var matches []catalog.FundRecord
	for i := range records {
		r := &records[i]
		if !contains(assetClasses, r.AssetClass) {
			continue
		}
		if r.Vintage != vintage {
			continue
		}
		if !contains(regions, r.Region) {
			continue
		}
		if r.FundSizeMn < sizeRange.Min || r.FundSizeMn > sizeRange.Max {
			continue
		}
		matches = append(matches, *r)
	}
	return matches
}

// metricValues collects the non-missing values of a metric.
// Records with a missing value for this metric still count toward other metrics.
func metricValues(records []catalog.FundRecord, metric string) []float64 {
	values := make([]float64, 0, len(records))
	for i := range records {
		if v := records[i].Metric(metric); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// quantile computes the p-quantile with linear interpolation between
// order statistics: the value at rank p*(n-1), interpolating between the
// two neighbors when the rank is fractional
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// mean computes the arithmetic mean
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
