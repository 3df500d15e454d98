// Package snapshot builds and parses the machine-readable metadata.json
// companion of the index.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/muninn/internal/models"
)

// Document is the persisted projection of a scanned document. Field names
// are a stable contract with external consumers of metadata.json.
type Document struct {
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Tags     []string  `json:"tags"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
}

// Snapshot is the full metadata.json payload.
type Snapshot struct {
	LastUpdated   time.Time  `json:"last_updated"`
	DocumentCount int        `json:"document_count"`
	Documents     []Document `json:"documents"`
}

// Build assembles a snapshot from the run's documents. now is the same clock
// reading the index header carries, so both artifacts agree on the run time.
func Build(docs []models.Document, now time.Time) Snapshot {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		tags := d.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, Document{
			Path:     d.Path,
			Title:    d.Title,
			Category: d.Category,
			Tags:     tags,
			Modified: d.Modified,
			Size:     d.Size,
		})
	}
	return Snapshot{
		LastUpdated:   now,
		DocumentCount: len(docs),
		Documents:     out,
	}
}

// Encode renders the snapshot as indented JSON.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot previously produced by Encode.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	return s, nil
}
