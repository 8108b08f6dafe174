package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotRepository persists catalog snapshots to SQLite so the service can
// start from the last good snapshot when the source is unreachable.
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repository", "catalog_snapshots").Logger(),
	}
}

// InitSchema creates the snapshots table if it does not exist
func (r *SnapshotRepository) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS catalog_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			checksum TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			records BLOB NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create catalog_snapshots table: %w", err)
	}

	_, err = r.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_catalog_snapshots_source
		ON catalog_snapshots(source, created_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to create catalog_snapshots index: %w", err)
	}

	return nil
}

// Save stores a snapshot, replacing older snapshots for the same source.
// Records are msgpack-encoded into a single blob.
func (r *SnapshotRepository) Save(snapshot *Catalog) error {
	blob, err := msgpack.Marshal(snapshot.Records)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot records: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Keep a single snapshot per source; history lives in the source itself
	if _, err := tx.Exec(`DELETE FROM catalog_snapshots WHERE source = ?`, snapshot.Source); err != nil {
		return fmt.Errorf("failed to clear previous snapshots: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO catalog_snapshots (source, checksum, record_count, records, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, snapshot.Source, snapshot.Checksum, len(snapshot.Records), blob, snapshot.LoadedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	r.log.Debug().
		Str("source", snapshot.Source).
		Int("records", len(snapshot.Records)).
		Msg("Snapshot saved")

	return nil
}

// GetLatest returns the most recent snapshot for a source, or nil when none exists
func (r *SnapshotRepository) GetLatest(source string) (*Catalog, error) {
	var (
		checksum  string
		blob      []byte
		createdAt int64
	)

	err := r.db.QueryRow(`
		SELECT checksum, records, created_at
		FROM catalog_snapshots
		WHERE source = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, source).Scan(&checksum, &blob, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var records []FundRecord
	if err := msgpack.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot records: %w", err)
	}

	return &Catalog{
		Records:  records,
		Source:   source,
		Checksum: checksum,
		LoadedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}
