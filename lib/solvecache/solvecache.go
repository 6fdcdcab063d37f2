// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package solvecache caches dependency-screen results keyed by recipe
// digest. Screening an expanded recipe (parsing every spec, checking
// duplicates and contradictions) is cheap, but CI runs it for every
// job in a build matrix against the same recipe bytes; the cache
// makes repeat screens a single indexed read.
//
// Results are stored in SQLite via lib/sqlitepool. The cached value
// is the issue list itself, CBOR-encoded, so a hit reproduces the
// exact screen output.
package solvecache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/beamforge/beamforge/lib/codec"
	"github.com/beamforge/beamforge/lib/sqlitepool"
)

const schema = `
CREATE TABLE IF NOT EXISTS solve_results (
	recipe_digest TEXT PRIMARY KEY,
	issues        BLOB NOT NULL,
	issue_count   INTEGER NOT NULL,
	checked_at    INTEGER NOT NULL
);
`

// Cache is a SQLite-backed store of screen results. Safe for
// concurrent use.
type Cache struct {
	pool *sqlitepool.Pool
}

// Result is one cached screen outcome.
type Result struct {
	// Issues is the screen's issue list; empty means the recipe
	// passed.
	Issues []string

	// CheckedAt is when the screen ran.
	CheckedAt time.Time
}

// Open creates or opens a solve cache at the given database path.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   path,
		Logger: logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening solve cache: %w", err)
	}
	return &Cache{pool: pool}, nil
}

// Close closes the underlying pool.
func (c *Cache) Close() error {
	return c.pool.Close()
}

// Digest computes the cache key for a recipe's canonical rendered
// bytes: the hex BLAKE3 digest. Screen results are valid for exactly
// these bytes, so the key covers everything that can change the
// outcome.
func Digest(rendered []byte) string {
	sum := blake3.Sum256(rendered)
	return fmt.Sprintf("%x", sum)
}

// Get looks up a cached result. The second return value reports
// whether the digest was present.
func (c *Cache) Get(ctx context.Context, digest string) (*Result, bool, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return nil, false, err
	}
	defer c.pool.Put(conn)

	var result *Result
	err = sqlitex.Execute(conn,
		"SELECT issues, checked_at FROM solve_results WHERE recipe_digest = ?",
		&sqlitex.ExecOptions{
			Args: []any{digest},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				encoded := make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, encoded)

				var issues []string
				if err := codec.Unmarshal(encoded, &issues); err != nil {
					return fmt.Errorf("decoding cached issues: %w", err)
				}
				result = &Result{
					Issues:    issues,
					CheckedAt: time.Unix(stmt.ColumnInt64(1), 0),
				}
				return nil
			},
		})
	if err != nil {
		return nil, false, fmt.Errorf("solve cache get: %w", err)
	}
	return result, result != nil, nil
}

// Put stores a screen result, replacing any previous result for the
// same digest.
func (c *Cache) Put(ctx context.Context, digest string, issues []string) error {
	encoded, err := codec.Marshal(issues)
	if err != nil {
		return fmt.Errorf("encoding issues: %w", err)
	}

	conn, err := c.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer c.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO solve_results (recipe_digest, issues, issue_count, checked_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (recipe_digest) DO UPDATE SET
		     issues = excluded.issues,
		     issue_count = excluded.issue_count,
		     checked_at = excluded.checked_at`,
		&sqlitex.ExecOptions{
			Args: []any{digest, encoded, len(issues), time.Now().Unix()},
		})
	if err != nil {
		return fmt.Errorf("solve cache put: %w", err)
	}
	return nil
}

// Purge deletes results older than the given age. Returns the number
// of rows deleted.
func (c *Cache) Purge(ctx context.Context, olderThan time.Duration) (int, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer c.pool.Put(conn)

	cutoff := time.Now().Add(-olderThan).Unix()
	err = sqlitex.Execute(conn,
		"DELETE FROM solve_results WHERE checked_at < ?",
		&sqlitex.ExecOptions{
			Args: []any{cutoff},
		})
	if err != nil {
		return 0, fmt.Errorf("solve cache purge: %w", err)
	}
	return conn.Changes(), nil
}
