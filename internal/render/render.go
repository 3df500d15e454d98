// Package render builds the human-readable INDEX.md document.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starford/muninn/internal/models"
)

const (
	quickAccessCount   = 5
	categorySummaryLen = 60

	stampLayout = "2006-01-02 15:04"
	dayLayout   = "2006-01-02"
)

// Index renders the complete index document. now stamps the header; the
// caller reads the clock once per run so every artifact of that run agrees.
// Output is deterministic for a given document set and clock reading.
func Index(docs []models.Document, now time.Time) string {
	var b strings.Builder

	b.WriteString("# 📚 Markdown Brain Index\n\n")
	fmt.Fprintf(&b, "> Last Updated: %s\n", now.Format(stampLayout))
	fmt.Fprintf(&b, "> Total Documents: %d\n\n", len(docs))

	b.WriteString("## 🎯 Quick Access\n")
	recent := byRecency(docs)
	for i, d := range recent {
		if i == quickAccessCount {
			break
		}
		fmt.Fprintf(&b, "- [%s](%s) - %s\n", d.Title, d.Path, d.Modified.Format(dayLayout))
	}

	b.WriteString("\n## 📁 By Category\n\n")
	groups := byCategory(docs)
	for _, cat := range sortedKeys(groups) {
		fmt.Fprintf(&b, "### %s\n", cat)
		for _, d := range byName(groups[cat]) {
			fmt.Fprintf(&b, "- [%s](%s)", d.Title, d.Path)
			if d.Summary != "" {
				fmt.Fprintf(&b, " - %s...", truncate(d.Summary, categorySummaryLen))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## 📊 Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Documents**: %d\n", len(docs))
	fmt.Fprintf(&b, "- **Categories**: %d\n", len(groups))
	lastUpdate := "N/A"
	if len(recent) > 0 {
		lastUpdate = recent[0].Modified.Format(stampLayout)
	}
	fmt.Fprintf(&b, "- **Last Update**: %s\n", lastUpdate)
	fmt.Fprintf(&b, "- **Largest Document**: %s\n\n", largestName(docs))

	b.WriteString("## 🏷️ All Tags\n")
	if tags := tagUnion(docs); len(tags) > 0 {
		b.WriteString(strings.Join(tags, " ") + "\n")
	}

	b.WriteString("\n---\n*Auto-generated by muninn*\n")
	return b.String()
}

// byRecency returns docs ordered newest first. The sort is stable, so
// documents sharing a modification time keep their input order.
func byRecency(docs []models.Document) []models.Document {
	out := make([]models.Document, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Modified.After(out[j].Modified)
	})
	return out
}

// byName orders category members by base file name, stable on ties.
func byName(docs []models.Document) []models.Document {
	out := make([]models.Document, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func byCategory(docs []models.Document) map[string][]models.Document {
	groups := make(map[string][]models.Document)
	for _, d := range docs {
		groups[d.Category] = append(groups[d.Category], d)
	}
	return groups
}

func sortedKeys(groups map[string][]models.Document) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// largestName returns the base name of the first document with maximal size,
// or "N/A" when there are no documents.
func largestName(docs []models.Document) string {
	if len(docs) == 0 {
		return "N/A"
	}
	best := docs[0]
	for _, d := range docs[1:] {
		if d.Size > best.Size {
			best = d
		}
	}
	return best.Name
}

// tagUnion collects the distinct tags across all documents, sorted.
func tagUnion(docs []models.Document) []string {
	seen := make(map[string]struct{})
	for _, d := range docs {
		for _, tag := range d.Tags {
			seen[tag] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// truncate caps s at max runes. Character counts, not bytes, decide the cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
