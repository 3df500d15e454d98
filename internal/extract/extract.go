// Package extract derives document metadata (title, category, tags, summary,
// and heading outline) from Markdown content using the keyword heuristics in
// the rules package.
package extract

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/rules"
)

const (
	// titleScanLines bounds how far into a document the title heading is
	// searched for.
	titleScanLines = 10
	// summaryMaxLen caps the length of a record's summary in characters.
	summaryMaxLen = 200
	// maxHeaderLevel is the deepest heading recorded in the outline.
	maxHeaderLevel = 3

	ellipsis = "..."
)

// ErrNotText reports content that could not be decoded as UTF-8 text.
var ErrNotText = errors.New("extract: content is not valid UTF-8 text")

// Metadata holds the derived fields of a Document Record.
type Metadata struct {
	Title    string
	Category string
	Tags     []string
	Summary  string
	Headers  []models.Header
}

// Result pairs extracted metadata with an optional diagnostic. When Err is
// non-nil, Meta holds the fallback fields and the caller decides whether to
// keep going or abort.
type Result struct {
	Meta Metadata
	Err  error
}

// Extract derives all metadata fields from content. name is the bare file
// name, used when the title must be derived from it. Content that is not
// valid UTF-8 yields Fallback metadata plus ErrNotText instead of aborting.
func Extract(name string, content []byte, rs *rules.Set) Result {
	if !utf8.Valid(content) {
		return Result{Meta: Fallback(name, rs), Err: ErrNotText}
	}

	text := string(content)
	lines := strings.Split(text, "\n")
	// Lower-case once; both classification and tag matching run against it.
	lowered := strings.ToLower(text)

	meta := Metadata{
		Title:    titleFromHeading(lines),
		Category: rs.Classify(lowered),
		Tags:     rs.MatchTags(lowered),
		Summary:  firstParagraph(text),
		Headers:  headerOutline(lines),
	}
	if meta.Title == "" {
		meta.Title = TitleFromName(name)
	}
	return Result{Meta: meta}
}

// Fallback returns the metadata recorded when content cannot be read or
// decoded: a file-name-derived title, the default category, and no tags,
// summary, or headers.
func Fallback(name string, rs *rules.Set) Metadata {
	return Metadata{
		Title:    TitleFromName(name),
		Category: rs.DefaultCategory,
	}
}

// titleFromHeading returns the text of the first "# " heading within the
// first titleScanLines lines, or "" when none exists.
func titleFromHeading(lines []string) string {
	n := len(lines)
	if n > titleScanLines {
		n = titleScanLines
	}
	for _, line := range lines[:n] {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// TitleFromName derives a display title from a file name: the final
// extension is dropped, underscores and hyphens become spaces, and the
// result is title-cased.
func TitleFromName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return titleCase(stem)
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases all other letters.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}

// headerOutline records every heading of level 1 to maxHeaderLevel in
// document order. Lines with more marker characters are out of range and not
// recorded.
func headerOutline(lines []string) []models.Header {
	var out []models.Header
	for _, line := range lines {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		level := leadingMarkers(line)
		if level > maxHeaderLevel {
			continue
		}
		out = append(out, models.Header{
			Level: level,
			Text:  strings.TrimSpace(strings.TrimLeft(line, "#")),
		})
	}
	return out
}

func leadingMarkers(line string) int {
	n := 0
	for _, r := range line {
		if r != '#' {
			break
		}
		n++
	}
	return n
}

// firstParagraph returns the first blank-line-delimited paragraph that is
// non-empty after trimming and does not start with a heading marker,
// truncated to summaryMaxLen characters plus an ellipsis when longer.
func firstParagraph(text string) string {
	for _, para := range strings.Split(text, "\n\n") {
		p := strings.TrimSpace(para)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		return truncate(p, summaryMaxLen)
	}
	return ""
}

// truncate shortens s to max characters and appends an ellipsis; s is
// returned unchanged when it fits. Characters are counted as runes so
// multi-byte text is never cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + ellipsis
}
