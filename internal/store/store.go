// Package store persists collection-stats documents between the
// aggregator (C2) and the decider (C3) passes, keyed by collection name,
// in a local SQLite database. C3 reads the documents produced by an
// arbitrarily earlier C2 run without needing the full corpus in memory.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS collection_stats (
	collection TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
`

// CollectionStatsStore is a SQLite-backed key-value store from
// collection name to its CollectionStats document.
type CollectionStatsStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at dsn. Use
// ":memory:" for an ephemeral, process-local store.
func Open(dsn string) (*CollectionStatsStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &CollectionStatsStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *CollectionStatsStore) Close() error {
	return s.db.Close()
}

// Put inserts or replaces the document for stats.Collection.
func (s *CollectionStatsStore) Put(stats types.CollectionStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", stats.Collection, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO collection_stats (collection, document) VALUES (?, ?)
		 ON CONFLICT(collection) DO UPDATE SET document = excluded.document, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		stats.Collection, string(data),
	)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", stats.Collection, err)
	}
	return nil
}

// Get returns the document for collection, or (zero value, false, nil)
// if none was ever Put.
func (s *CollectionStatsStore) Get(collection string) (types.CollectionStats, bool, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT document FROM collection_stats WHERE collection = ?`, collection,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return types.CollectionStats{}, false, nil
	}
	if err != nil {
		return types.CollectionStats{}, false, fmt.Errorf("store: get %s: %w", collection, err)
	}
	var stats types.CollectionStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return types.CollectionStats{}, false, fmt.Errorf("store: unmarshal %s: %w", collection, err)
	}
	return stats, true, nil
}

// Collections lists every collection name currently stored, sorted.
func (s *CollectionStatsStore) Collections() ([]string, error) {
	rows, err := s.db.Query(`SELECT collection FROM collection_stats ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("store: list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
