package charts

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlake/fundbench/internal/modules/benchmark"
)

func TestBuildPage(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	svc := NewService(log)

	result := &benchmark.Result{
		FundName:   "Alpha Fund I",
		AssetClass: benchmark.AssetClassVC,
		Vintage:    2010,
		Regions:    []string{"Europe", "North America"},
		MatchCount: 10,
		Benchmarks: []benchmark.MetricBenchmark{
			{Metric: "NET IRR (%)", TopDecile: 45, TopQuartile: 37.5, Average: 27.5, UserValue: 12.5},
			{Metric: "NET TVPI (X)", TopDecile: 3.1, TopQuartile: 2.4, Average: 1.9, UserValue: 1.8},
		},
	}

	page := svc.BuildPage(result)
	require.Len(t, page.Charts, 2)

	irr := page.Charts[0]
	assert.Equal(t, "NET IRR (%) Benchmark", irr.Title)
	require.Len(t, irr.Bars, 4)

	assert.Equal(t, LabelTopDecile, irr.Bars[0].Label)
	assert.Equal(t, 45.0, irr.Bars[0].Value)
	assert.Equal(t, "#003165", irr.Bars[0].Color)

	assert.Equal(t, LabelTopQuartile, irr.Bars[1].Label)
	assert.Equal(t, "#0076C8", irr.Bars[1].Color)

	assert.Equal(t, LabelAverage, irr.Bars[2].Label)
	assert.Equal(t, "#F2F2F2", irr.Bars[2].Color)

	// The user's fund is the last bar, in the accent color
	assert.Equal(t, "Alpha Fund I", irr.Bars[3].Label)
	assert.Equal(t, 12.5, irr.Bars[3].Value)
	assert.Equal(t, "#FF8300", irr.Bars[3].Color)

	assert.Equal(t,
		"Asset Class: Venture Capital (all stages) | Vintage Year: 2010 | Sector: Sector-Agnostic | Geography: Europe, North America | Number of Funds: 10",
		page.Footer)
}

func TestBuildPage_EmptyResult(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	svc := NewService(log)

	page := svc.BuildPage(&benchmark.Result{
		FundName:   "Alpha Fund I",
		AssetClass: benchmark.AssetClassVC,
		Vintage:    2012,
		Regions:    []string{"Europe"},
		MatchCount: 0,
	})

	assert.Empty(t, page.Charts)
	assert.Contains(t, page.Footer, "Number of Funds: 0")
}
