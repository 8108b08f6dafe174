// Package catalog loads and caches the historical fund catalog used for benchmarking.
package catalog

import (
	"time"
)

// Metric names as they appear in the catalog columns
const (
	MetricNetIRR  = "NET IRR (%)"
	MetricNetTVPI = "NET TVPI (X)"
	MetricNetDPI  = "NET DPI (X)"
)

// AllMetrics lists the metric columns in display order
var AllMetrics = []string{MetricNetIRR, MetricNetTVPI, MetricNetDPI}

// Required catalog column headers
const (
	ColAssetClass = "ASSET CLASS"
	ColVintage    = "VINTAGE"
	ColRegion     = "FM REGION"
	ColFundSize   = "FUND SIZE (USD MN)"
)

// FundRecord is one row of the historical catalog.
// Metric values are pointers so a blank cell is distinguishable from a true zero.
type FundRecord struct {
	AssetClass string   `json:"asset_class" msgpack:"asset_class"`
	Vintage    int      `json:"vintage" msgpack:"vintage"`
	Region     string   `json:"region" msgpack:"region"`
	FundSizeMn float64  `json:"fund_size_mn" msgpack:"fund_size_mn"`
	NetIRR     *float64 `json:"net_irr,omitempty" msgpack:"net_irr"`
	NetTVPI    *float64 `json:"net_tvpi,omitempty" msgpack:"net_tvpi"`
	NetDPI     *float64 `json:"net_dpi,omitempty" msgpack:"net_dpi"`
}

// Metric returns the record's value for a named metric, or nil when missing
func (r *FundRecord) Metric(name string) *float64 {
	switch name {
	case MetricNetIRR:
		return r.NetIRR
	case MetricNetTVPI:
		return r.NetTVPI
	case MetricNetDPI:
		return r.NetDPI
	}
	return nil
}

// Catalog is an immutable snapshot of the fund catalog.
// It is never mutated after load, so concurrent readers need no locking.
type Catalog struct {
	Records  []FundRecord
	Source   string
	Checksum string
	LoadedAt time.Time
}

// Len returns the number of records in the catalog
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}
