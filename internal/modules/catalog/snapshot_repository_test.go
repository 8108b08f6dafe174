package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestSnapshotRepository_RoundTrip(t *testing.T) {
	repo := setupSnapshotRepo(t)

	irr := 12.5
	snapshot := &Catalog{
		Records: []FundRecord{
			{AssetClass: "Venture Capital", Vintage: 2010, Region: "Europe", FundSizeMn: 75, NetIRR: &irr},
			{AssetClass: "Private Equity", Vintage: 2015, Region: "North America", FundSizeMn: 2500},
		},
		Source:   "s3://benchmarks/funds.xlsx",
		Checksum: "abc123",
		LoadedAt: time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Save(snapshot))

	restored, err := repo.GetLatest("s3://benchmarks/funds.xlsx")
	require.NoError(t, err)
	require.NotNil(t, restored)

	assert.Equal(t, snapshot.Checksum, restored.Checksum)
	assert.Equal(t, snapshot.LoadedAt, restored.LoadedAt)
	require.Len(t, restored.Records, 2)

	require.NotNil(t, restored.Records[0].NetIRR)
	assert.Equal(t, 12.5, *restored.Records[0].NetIRR)
	assert.Nil(t, restored.Records[1].NetIRR)
	assert.Equal(t, 2500.0, restored.Records[1].FundSizeMn)
}

func TestSnapshotRepository_KeepsOneSnapshotPerSource(t *testing.T) {
	repo := setupSnapshotRepo(t)

	older := &Catalog{
		Records:  []FundRecord{{AssetClass: "Venture Capital", Vintage: 2010, Region: "Europe", FundSizeMn: 75}},
		Source:   "funds.xlsx",
		Checksum: "v1",
		LoadedAt: time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(older))

	newer := &Catalog{
		Records: []FundRecord{
			{AssetClass: "Venture Capital", Vintage: 2010, Region: "Europe", FundSizeMn: 75},
			{AssetClass: "Venture Capital", Vintage: 2011, Region: "Europe", FundSizeMn: 80},
		},
		Source:   "funds.xlsx",
		Checksum: "v2",
		LoadedAt: time.Date(2026, 8, 2, 6, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(newer))

	restored, err := repo.GetLatest("funds.xlsx")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "v2", restored.Checksum)
	assert.Len(t, restored.Records, 2)

	var count int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM catalog_snapshots`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSnapshotRepository_GetLatestMissing(t *testing.T) {
	repo := setupSnapshotRepo(t)

	restored, err := repo.GetLatest("never-loaded.xlsx")
	require.NoError(t, err)
	assert.Nil(t, restored)
}
