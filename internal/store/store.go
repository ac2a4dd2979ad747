// Package store caches parsed sentence sets on disk, so that repeated
// "messages parse" runs over an unchanged corpus file skip re-splitting it
// (the cached words are raw, so normalizing them still happens on every
// run). It is keyed off the SHA-256 of the source file's raw
// bytes, not the file's path or mtime.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS parsed_corpora (
	content_hash   TEXT PRIMARY KEY,
	sentences_json TEXT NOT NULL
)`

// Store is a small sqlite-backed cache of parsed sentence sets.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashContent returns the cache key for a corpus file's raw contents.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached sentence set for hash, if present. Each
// sentence is a slice of raw (pre-normalization) whitespace-split words.
func (s *Store) Lookup(hash string) ([][]string, bool, error) {
	row := s.db.QueryRow(`SELECT sentences_json FROM parsed_corpora WHERE content_hash = ?`, hash)
	var raw string
	switch err := row.Scan(&raw); {
	case err == sql.ErrNoRows:
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("lookup %s: %w", hash, err)
	}
	var sentences [][]string
	if err := json.Unmarshal([]byte(raw), &sentences); err != nil {
		return nil, false, fmt.Errorf("decode cached sentences for %s: %w", hash, err)
	}
	return sentences, true, nil
}

// Put caches sentences under hash, replacing any prior entry.
func (s *Store) Put(hash string, sentences [][]string) error {
	raw, err := json.Marshal(sentences)
	if err != nil {
		return fmt.Errorf("encode sentences: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO parsed_corpora(content_hash, sentences_json) VALUES (?, ?)`,
		hash, string(raw),
	)
	if err != nil {
		return fmt.Errorf("store %s: %w", hash, err)
	}
	return nil
}
