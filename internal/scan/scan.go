// Package scan walks the documents directory and reports eligible input
// files together with their file-system facts.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/muninn/internal/models"
)

// Scanner finds eligible document files under a root directory.
type Scanner struct {
	root       string // absolute path to the documents directory
	extensions []string
	reserved   map[string]struct{}
}

// New creates a Scanner rooted at dir, which must already exist. extensions
// lists the eligible file-name suffixes; reserved lists file names that are
// never treated as input at any depth (the generated outputs).
func New(dir string, extensions, reserved []string) (*Scanner, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("scan: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scan: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: root is not a directory: %s", abs)
	}
	r := make(map[string]struct{}, len(reserved))
	for _, name := range reserved {
		r[name] = struct{}{}
	}
	return &Scanner{root: abs, extensions: extensions, reserved: r}, nil
}

// Root returns the absolute documents root.
func (s *Scanner) Root() string { return s.root }

// Eligible reports whether a file name counts as an input document: it must
// carry a recognized extension and must not be a reserved output name.
func (s *Scanner) Eligible(name string) bool {
	if _, ok := s.reserved[name]; ok {
		return false
	}
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Scan walks the root depth-first and returns file facts for every eligible
// file. Subdirectories whose name starts with "." are skipped entirely; the
// root itself is never skipped. The returned slice follows the walk's
// deterministic lexical order, which is also the order recency ties break on
// further down the pipeline. Any traversal or stat failure aborts the whole
// scan; no partial result is returned.
func (s *Scanner) Scan() ([]models.FileInfo, error) {
	var out []models.FileInfo
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != s.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !s.Eligible(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		out = append(out, models.FileInfo{
			Path:     rel,
			Name:     d.Name(),
			Modified: info.ModTime(),
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: walk %s: %w", s.root, err)
	}
	return out, nil
}
