// Package searchindex maintains a best-effort keyword index of evaluations
// on a local SQLite file with an FTS5 table. The index is a derived,
// rebuildable projection: absence of a document never proves the evaluation
// does not exist, and index failures must never roll back the relational
// mutation that triggered them.
package searchindex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"resto-reviews-backend/internal/models"
)

// maxResults caps every keyword search
const maxResults = 10

const schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS evaluations_fts USING fts5(
	content,
	evaluation_id UNINDEXED,
	restaurant_id UNINDEXED,
	note UNINDEXED
);
`

// Index is the process-wide evaluation search index. One instance owns the
// underlying file for the lifetime of the process; writes are serialized so
// a search issued right after IndexEvaluation or DeleteEvaluation returns
// observes the change.
type Index struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the index file and bootstraps the FTS table
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure search index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create search index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the index file
func (ix *Index) Close() error {
	return ix.db.Close()
}

// IndexEvaluation upserts the document for an evaluation. Re-indexing the
// same id replaces the previous document, never duplicates it.
func (ix *Index) IndexEvaluation(ctx context.Context, id, restaurantID int64, evaluateur, commentaire string, note int) error {
	content := strings.TrimSpace(evaluateur + " " + commentaire)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin index write: %v", models.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM evaluations_fts WHERE evaluation_id = ?`, id); err != nil {
		return fmt.Errorf("%w: replace document %d: %v", models.ErrStorage, id, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO evaluations_fts (content, evaluation_id, restaurant_id, note) VALUES (?, ?, ?, ?)`,
		content, id, restaurantID, note,
	)
	if err != nil {
		return fmt.Errorf("%w: index document %d: %v", models.ErrStorage, id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit index write: %v", models.ErrStorage, err)
	}
	return nil
}

// DeleteEvaluation removes the document for an evaluation. Removing an
// absent document is a no-op.
func (ix *Index) DeleteEvaluation(ctx context.Context, id int64) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, err := ix.db.ExecContext(ctx, `DELETE FROM evaluations_fts WHERE evaluation_id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete document %d: %v", models.ErrStorage, id, err)
	}
	return nil
}

// SearchByKeywords returns the ids of at most maxResults evaluations whose
// content matches the query, restricted to one restaurant and ordered by
// relevance. A malformed query surfaces as models.ErrQuery.
func (ix *Index) SearchByKeywords(ctx context.Context, query string, restaurantID int64) ([]int64, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT evaluation_id
		FROM evaluations_fts
		WHERE evaluations_fts MATCH ? AND restaurant_id = ?
		ORDER BY rank
		LIMIT ?`,
		query, restaurantID, maxResults,
	)
	if err != nil {
		return nil, classify(err, query)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan search result: %v", models.ErrStorage, err)
		}
		ids = append(ids, id)
	}
	// a bad MATCH expression may only surface while stepping through rows
	if err := rows.Err(); err != nil {
		return nil, classify(err, query)
	}
	return ids, nil
}

// classify distinguishes a bad MATCH expression from an index failure.
// SQLite reports both through the same error channel, so this goes by the
// fts5 parser's message.
func classify(err error, query string) error {
	msg := err.Error()
	if strings.Contains(msg, "fts5: syntax error") ||
		strings.Contains(msg, "unknown special query") ||
		strings.Contains(msg, "unterminated string") ||
		strings.Contains(msg, "no such column") {
		return fmt.Errorf("%w: %q: %v", models.ErrQuery, query, err)
	}
	return fmt.Errorf("%w: search %q: %v", models.ErrStorage, query, err)
}
