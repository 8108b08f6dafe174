// Package benchmark implements the fund benchmark query engine.
package benchmark

import (
	"math"
)

// Asset class selector labels as shown on the dashboard
const (
	AssetClassVC = "Venture Capital (all stages)"
	AssetClassPE = "Private Equity (Buy-out)"
)

// Geography selector labels
const (
	GeoEurope          = "Europe"
	GeoUS              = "US"
	GeoEuropeAndUS     = "Europe & US"
	regionEurope       = "Europe"
	regionNorthAmerica = "North America"
)

// SizeBucketAgnostic matches every nonnegative fund size
const SizeBucketAgnostic = "Agnostic"

// SizeRange is a numeric fund size bucket in USD millions.
// Max is +Inf for open-ended buckets; the filter is inclusive on both ends.
type SizeRange struct {
	Min float64
	Max float64
}

// Selector labels resolve through plain static lookup tables.

// assetClassMapping maps a selector label to the catalog asset-class values it matches.
// Expressed as a set even though each label currently matches exactly one value.
var assetClassMapping = map[string][]string{
	AssetClassVC: {"Venture Capital"},
	AssetClassPE: {"Private Equity"},
}

// geographyMapping maps a selector label to catalog FM REGION values
var geographyMapping = map[string][]string{
	GeoEurope:      {regionEurope},
	GeoUS:          {regionNorthAmerica},
	GeoEuropeAndUS: {regionEurope, regionNorthAmerica},
}

// fundSizeMapping holds the per-asset-class size bucket tables
var fundSizeMapping = map[string]map[string]SizeRange{
	AssetClassVC: {
		"$10mn-$50mn":      {Min: 10, Max: 50},
		"$50mn-$100mn":     {Min: 50, Max: 100},
		"$100mn-$200mn":    {Min: 100, Max: 200},
		"$200mn-$500mn":    {Min: 200, Max: 500},
		"$500mn+":          {Min: 500, Max: math.Inf(1)},
		SizeBucketAgnostic: {Min: 0, Max: math.Inf(1)},
	},
	AssetClassPE: {
		"<$1bn":            {Min: 0, Max: 1000},
		"$1bn-$3bn":        {Min: 1000, Max: 3000},
		"$3bn-$5bn":        {Min: 3000, Max: 5000},
		"$5bn-$10bn":       {Min: 5000, Max: 10000},
		">$10bn":           {Min: 10000, Max: math.Inf(1)},
		SizeBucketAgnostic: {Min: 0, Max: math.Inf(1)},
	},
}

// Display order for the dashboard's dropdowns
var (
	assetClassOrder = []string{AssetClassVC, AssetClassPE}
	geographyOrder  = []string{GeoEurope, GeoUS, GeoEuropeAndUS}
	sizeBucketOrder = map[string][]string{
		AssetClassVC: {"$10mn-$50mn", "$50mn-$100mn", "$100mn-$200mn", "$200mn-$500mn", "$500mn+", SizeBucketAgnostic},
		AssetClassPE: {"<$1bn", "$1bn-$3bn", "$3bn-$5bn", "$5bn-$10bn", ">$10bn", SizeBucketAgnostic},
	}
)

// earliestVintage is the first selectable vintage year
const earliestVintage = 2000

// AssetClassOptions returns the asset class selector labels
func AssetClassOptions() []string {
	return append([]string(nil), assetClassOrder...)
}

// GeographyOptions returns the geography selector labels
func GeographyOptions() []string {
	return append([]string(nil), geographyOrder...)
}

// SizeBucketOptions returns the size bucket labels for an asset class,
// or nil for an unknown asset class
func SizeBucketOptions(assetClass string) []string {
	buckets, ok := sizeBucketOrder[assetClass]
	if !ok {
		return nil
	}
	return append([]string(nil), buckets...)
}

// VintageOptions returns the selectable vintage years up to the current year
func VintageOptions(currentYear int) []int {
	if currentYear < earliestVintage {
		return nil
	}
	years := make([]int, 0, currentYear-earliestVintage+1)
	for y := earliestVintage; y <= currentYear; y++ {
		years = append(years, y)
	}
	return years
}

// resolveAssetClass maps a selector label to catalog values
func resolveAssetClass(label string) ([]string, bool) {
	values, ok := assetClassMapping[label]
	return values, ok
}

// resolveGeography maps a selector label to catalog region values
func resolveGeography(label string) ([]string, bool) {
	values, ok := geographyMapping[label]
	return values, ok
}

// resolveSizeBucket maps an asset class + bucket label to its numeric range
func resolveSizeBucket(assetClass, label string) (SizeRange, bool) {
	buckets, ok := fundSizeMapping[assetClass]
	if !ok {
		return SizeRange{}, false
	}
	r, ok := buckets[label]
	return r, ok
}
