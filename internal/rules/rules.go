// Package rules defines the ordered category rule set and tag keyword list
// used to classify documents. Both orderings are load-bearing: categories are
// matched first-match-wins in declared order, and tags are emitted in keyword
// order regardless of where they appear in a document.
package rules

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Category pairs a label with the lower-case keywords that select it.
type Category struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Set is a complete classification rule set. The zero value is not usable;
// start from Default or a validated config.
type Set struct {
	// Categories are evaluated in slice order; the first category with any
	// keyword present in the document wins.
	Categories []Category `yaml:"categories"`
	// TagKeywords are checked in slice order; each keyword found in the
	// document contributes one "#<keyword>" tag.
	TagKeywords []string `yaml:"tag_keywords"`
	// DefaultCategory is assigned when no category keyword matches.
	DefaultCategory string `yaml:"default_category"`
}

// Default returns the built-in rule set.
func Default() Set {
	return Set{
		Categories: []Category{
			{Label: "Authentication System", Keywords: []string{"auth", "login", "signin", "signup", "session"}},
			{Label: "Admin & Management", Keywords: []string{"admin", "dashboard", "management"}},
			{Label: "Development & UI", Keywords: []string{"ui", "component", "theme", "development", "log"}},
			{Label: "API Documentation", Keywords: []string{"api", "endpoint", "route"}},
			{Label: "Security", Keywords: []string{"security", "permission", "rate", "audit"}},
			{Label: "Configuration", Keywords: []string{"config", "setup", "env", "settings"}},
			{Label: "Notes & Memos", Keywords: []string{"memo", "note", "todo", "reminder"}},
		},
		TagKeywords:     []string{"authentication", "ui", "api", "security", "admin", "development", "configuration"},
		DefaultCategory: "Uncategorized",
	}
}

// IsZero reports whether the set carries no configuration at all.
func (s *Set) IsZero() bool {
	return len(s.Categories) == 0 && len(s.TagKeywords) == 0 && s.DefaultCategory == ""
}

// Validate checks the rule set invariants: a default label, at least one
// category, non-empty lower-case keywords, and no duplicate labels or tag
// keywords. Duplicate-free tag keywords guarantee duplicate-free tags on
// every record.
func (s *Set) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Categories, validation.Required),
		validation.Field(&s.DefaultCategory, validation.Required),
	); err != nil {
		return err
	}

	labels := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if c.Label == "" {
			return fmt.Errorf("rules: category with empty label")
		}
		if _, dup := labels[c.Label]; dup {
			return fmt.Errorf("rules: duplicate category label %q", c.Label)
		}
		labels[c.Label] = struct{}{}
		if len(c.Keywords) == 0 {
			return fmt.Errorf("rules: category %q has no keywords", c.Label)
		}
		for _, kw := range c.Keywords {
			if err := checkKeyword(kw); err != nil {
				return fmt.Errorf("rules: category %q: %w", c.Label, err)
			}
		}
	}

	seen := make(map[string]struct{}, len(s.TagKeywords))
	for _, kw := range s.TagKeywords {
		if err := checkKeyword(kw); err != nil {
			return fmt.Errorf("rules: tag keywords: %w", err)
		}
		if _, dup := seen[kw]; dup {
			return fmt.Errorf("rules: duplicate tag keyword %q", kw)
		}
		seen[kw] = struct{}{}
	}

	return nil
}

func checkKeyword(kw string) error {
	if kw == "" {
		return fmt.Errorf("empty keyword")
	}
	if kw != strings.ToLower(kw) {
		return fmt.Errorf("keyword %q is not lower-case", kw)
	}
	return nil
}

// Classify returns the label of the first category (in declared order) with
// any keyword contained in lowered, or DefaultCategory when none matches.
// lowered must be the lower-cased document content.
func (s *Set) Classify(lowered string) string {
	for _, c := range s.Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lowered, kw) {
				return c.Label
			}
		}
	}
	return s.DefaultCategory
}

// MatchTags returns a "#"-prefixed tag for every tag keyword contained in
// lowered, in keyword-list order. lowered must be the lower-cased document
// content.
func (s *Set) MatchTags(lowered string) []string {
	var out []string
	for _, kw := range s.TagKeywords {
		if strings.Contains(lowered, kw) {
			out = append(out, "#"+kw)
		}
	}
	return out
}
