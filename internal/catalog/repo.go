package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/starford/muninn/internal/models"
)

// Entry pairs one document's extracted metadata with its raw text, which
// feeds the search index.
type Entry struct {
	Doc  models.Document
	Body string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
}

// Rebuild replaces the catalog contents with the given entries inside one
// transaction. Readers see either the previous generation or the new one,
// never a mix.
func (db *DB) Rebuild(entries []Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("catalog: clear documents: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO documents (path, name, title, category, tags, summary, body, size, modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("catalog: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		tags := e.Doc.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, _ := json.Marshal(tags)

		_, err := stmt.Exec(e.Doc.Path, e.Doc.Name, e.Doc.Title, e.Doc.Category,
			string(tagsJSON), e.Doc.Summary, e.Body, e.Doc.Size, e.Doc.Modified)
		if err != nil {
			return fmt.Errorf("catalog: insert %s: %w", e.Doc.Path, err)
		}
		if err := ftsInsert(tx, e.Doc.Path, e.Doc.Title, e.Body, tags); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of cataloged documents.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}
