package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
	"github.com/cognicore/pointlabel/pkg/pointlabel/label"
	"github.com/cognicore/pointlabel/pkg/pointlabel/store"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	records INTEGER NOT NULL DEFAULT 0,
	bundle TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_tokens (
	snapshot_id TEXT NOT NULL,
	token TEXT NOT NULL,
	frequency INTEGER NOT NULL,
	buildings INTEGER NOT NULL,
	numeric_succession INTEGER NOT NULL,
	PRIMARY KEY(snapshot_id, token),
	FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS annotations (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	building_id TEXT,
	equip TEXT,
	record TEXT NOT NULL,
	PRIMARY KEY(run_id, seq)
);

CREATE INDEX IF NOT EXISTS annotations_equip ON annotations(run_id, equip);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot stores a snapshot and returns its id. A snapshot without an id
// gets a new run id.
func (s *sqliteStore) SaveSnapshot(ctx context.Context, snap store.Snapshot) (string, error) {
	if err := snap.Bundle.Validate(); err != nil {
		return "", err
	}
	if snap.ID == "" {
		snap.ID = store.NewRunID()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	var buf bytes.Buffer
	if err := snap.Bundle.Encode(&buf); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO snapshots (id, created_at, records, bundle)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	records=excluded.records,
	bundle=excluded.bundle;
`
	if _, err := tx.ExecContext(ctx, stmt,
		snap.ID,
		snap.CreatedAt.UnixNano(),
		snap.Records,
		buf.String(),
	); err != nil {
		return "", err
	}

	if err := replaceSnapshotTokens(ctx, tx, snap.ID, snap.Tokens); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return snap.ID, nil
}

func replaceSnapshotTokens(ctx context.Context, tx *sql.Tx, id string, tokens []store.TokenStat) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_tokens WHERE snapshot_id=?`, id); err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO snapshot_tokens (snapshot_id, token, frequency, buildings, numeric_succession)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, ts := range tokens {
		if ts.Token == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, ts.Token, ts.Frequency, ts.Buildings, ts.NumericSuccession); err != nil {
			return err
		}
	}
	return nil
}

// GetSnapshot retrieves a snapshot by id
func (s *sqliteStore) GetSnapshot(ctx context.Context, id string) (store.Snapshot, error) {
	return s.loadSnapshot(ctx, `SELECT id, created_at, records, bundle FROM snapshots WHERE id = ?`, id)
}

// LatestSnapshot retrieves the most recently created snapshot
func (s *sqliteStore) LatestSnapshot(ctx context.Context) (store.Snapshot, error) {
	return s.loadSnapshot(ctx, `SELECT id, created_at, records, bundle FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1`)
}

func (s *sqliteStore) loadSnapshot(ctx context.Context, query string, args ...interface{}) (store.Snapshot, error) {
	var (
		snap    store.Snapshot
		created int64
		bundle  string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &created, &snap.Records, &bundle)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Snapshot{}, err
	}

	snap.CreatedAt = time.Unix(0, created).UTC()
	snap.Bundle, err = vocab.Decode(bytes.NewReader([]byte(bundle)))
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT token, frequency, buildings, numeric_succession
FROM snapshot_tokens
WHERE snapshot_id = ?
ORDER BY token`, snap.ID)
	if err != nil {
		return store.Snapshot{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var ts store.TokenStat
		if err := rows.Scan(&ts.Token, &ts.Frequency, &ts.Buildings, &ts.NumericSuccession); err != nil {
			return store.Snapshot{}, err
		}
		snap.Tokens = append(snap.Tokens, ts)
	}
	return snap, rows.Err()
}

// SaveAnnotations replaces the annotations stored for runID, keeping their order.
func (s *sqliteStore) SaveAnnotations(ctx context.Context, runID string, recs []label.Annotated) error {
	if runID == "" {
		return fmt.Errorf("%w: empty run id", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM annotations WHERE run_id=?`, runID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO annotations (run_id, seq, building_id, equip, record)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, i, rec.BuildingID, store.EquipKey(rec), string(data)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AnnotationsByEquip returns the annotations of a run whose equipment field
// matches equip, case-insensitively.
func (s *sqliteStore) AnnotationsByEquip(ctx context.Context, runID, equip string) ([]label.Annotated, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT record FROM annotations
WHERE run_id = ? AND equip = ?
ORDER BY seq`, runID, ingest.Fold(equip))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []label.Annotated
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec label.Annotated
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
