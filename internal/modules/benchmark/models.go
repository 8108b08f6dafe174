package benchmark

import (
	"errors"

	"github.com/meridianlake/fundbench/internal/modules/catalog"
)

// Error taxonomy. Validation failures and missing-catalog conditions are
// reported to the caller; an empty result is a normal outcome, not an error.
var (
	// ErrValidation marks caller input that fails validation before any filtering
	ErrValidation = errors.New("validation failed")
	// ErrNoMetrics means no metric is applicable after the vintage-based rule
	ErrNoMetrics = errors.New("no applicable metrics")
	// ErrNoCatalog means no catalog could be loaded
	ErrNoCatalog = errors.New("catalog not loaded")
)

// Query is one benchmark request: the caller's fund details plus the
// peer-set selectors.
type Query struct {
	FundName   string  `json:"fund_name"`
	AssetClass string  `json:"asset_class"`
	Vintage    int     `json:"vintage"`
	Geography  string  `json:"geography"`
	FundSize   string  `json:"fund_size"`
	NetIRR     float64 `json:"net_irr"`
	NetTVPI    float64 `json:"net_tvpi"`
	NetDPI     float64 `json:"net_dpi"`
}

// metricValue returns the caller-supplied value for a named metric.
// Zero means "not provided", matching the dashboard's number inputs.
func (q *Query) metricValue(name string) float64 {
	switch name {
	case catalog.MetricNetIRR:
		return q.NetIRR
	case catalog.MetricNetTVPI:
		return q.NetTVPI
	case catalog.MetricNetDPI:
		return q.NetDPI
	}
	return 0
}

// MetricBenchmark holds the benchmark statistics for one metric
type MetricBenchmark struct {
	Metric      string  `json:"metric"`
	TopDecile   float64 `json:"top_decile"`
	TopQuartile float64 `json:"top_quartile"`
	Average     float64 `json:"average"`
	SampleSize  int     `json:"sample_size"` // matching records with a value for this metric
	UserValue   float64 `json:"user_value"`
}

// Result is the outcome of a benchmark query.
// MatchCount 0 with nil Benchmarks is the reportable empty-result condition.
type Result struct {
	FundName   string            `json:"fund_name"`
	AssetClass string            `json:"asset_class"`
	Vintage    int               `json:"vintage"`
	Regions    []string          `json:"regions"`
	MatchCount int               `json:"match_count"`
	Benchmarks []MetricBenchmark `json:"benchmarks,omitempty"`
}
