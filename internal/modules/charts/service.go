// Package charts builds the bar-chart payloads the dashboard renders for
// benchmark results.
package charts

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meridianlake/fundbench/internal/modules/benchmark"
)

// Benchmark bar labels
const (
	LabelTopDecile   = "Top Decile (90%)"
	LabelTopQuartile = "Top Quartile (75%)"
	LabelAverage     = "Average"
)

// Brand palette
const (
	colorTopDecile   = "#003165" // Dark Blue
	colorTopQuartile = "#0076C8" // Bright Blue
	colorAverage     = "#F2F2F2" // Light Gray
	colorUserFund    = "#FF8300" // Accent Orange for the user's fund
)

// Bar is a single bar on a chart
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Chart is one metric's benchmark chart
type Chart struct {
	Metric string `json:"metric"`
	Title  string `json:"title"`
	Bars   []Bar  `json:"bars"`
}

// Page is everything the dashboard renders for one benchmark result
type Page struct {
	Charts []Chart `json:"charts"`
	Footer string  `json:"footer"`
}

// Service builds chart payloads from benchmark results
type Service struct {
	log zerolog.Logger
}

// NewService creates a new charts service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "charts").Logger(),
	}
}

// BuildPage converts a benchmark result into renderable charts.
// An empty result produces a page with no charts and a footer only.
func (s *Service) BuildPage(result *benchmark.Result) *Page {
	page := &Page{
		Footer: buildFooter(result),
	}

	for _, b := range result.Benchmarks {
		page.Charts = append(page.Charts, Chart{
			Metric: b.Metric,
			Title:  fmt.Sprintf("%s Benchmark", b.Metric),
			Bars: []Bar{
				{Label: LabelTopDecile, Value: b.TopDecile, Color: colorTopDecile},
				{Label: LabelTopQuartile, Value: b.TopQuartile, Color: colorTopQuartile},
				{Label: LabelAverage, Value: b.Average, Color: colorAverage},
				{Label: result.FundName, Value: b.UserValue, Color: colorUserFund},
			},
		})
	}

	return page
}

// buildFooter formats the data-insight line shown under the charts
func buildFooter(result *benchmark.Result) string {
	return fmt.Sprintf(
		"Asset Class: %s | Vintage Year: %d | Sector: Sector-Agnostic | Geography: %s | Number of Funds: %d",
		result.AssetClass,
		result.Vintage,
		strings.Join(result.Regions, ", "),
		result.MatchCount,
	)
}
