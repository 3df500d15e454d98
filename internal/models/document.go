// Package models defines the domain types for Muninn.
package models

import "time"

// Header is one entry in a document's heading outline: a Markdown heading
// of level 1 to 3, recorded in document order.
type Header struct {
	Level int
	Text  string
}

// FileInfo holds the file-system facts the scanner collects for one eligible
// file, before any content has been read.
type FileInfo struct {
	// Path is the file's location relative to the documents root. It is
	// unique within a single scan.
	Path string
	// Name is the bare file name.
	Name string
	// Modified is the last-modification timestamp from the file system.
	Modified time.Time
	// Size is the file size in bytes.
	Size int64
}

// Document is the full metadata record for one scanned document. Records are
// scan-scoped: built fresh on every run, never mutated after assembly, and
// discarded when the run ends.
type Document struct {
	Path     string
	Name     string
	Modified time.Time
	Size     int64

	// Title comes from the first level-1 heading, or is derived from the
	// file name when no heading exists.
	Title string
	// Category is exactly one rule-set label, or the default label when no
	// rule matched.
	Category string
	// Tags are "#"-prefixed keywords in rule-set order, without duplicates.
	Tags []string
	// Summary is the first non-heading paragraph, truncated to 200
	// characters plus an ellipsis when longer.
	Summary string
	// Headers is the heading outline in document order.
	Headers []Header
}
