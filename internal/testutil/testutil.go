// Package testutil provides shared test helpers for building document
// directories and inspecting catalogs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/muninn/internal/catalog"
)

// WriteDoc writes a document at rel under dir, creating any parent
// directories.
func WriteDoc(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Touch sets the modification time of rel under dir.
func Touch(t *testing.T, dir, rel string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(filepath.Join(dir, rel), mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

// OpenCatalog opens the catalog database at path and closes it with the test.
func OpenCatalog(t *testing.T, path string) *catalog.DB {
	t.Helper()
	db, err := catalog.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
