package rules

import (
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("default rule set should validate: %v", err)
	}
}

func TestDefault_CategoryOrder(t *testing.T) {
	want := []string{
		"Authentication System",
		"Admin & Management",
		"Development & UI",
		"API Documentation",
		"Security",
		"Configuration",
		"Notes & Memos",
	}
	s := Default()
	if len(s.Categories) != len(want) {
		t.Fatalf("len(Categories) = %d, want %d", len(s.Categories), len(want))
	}
	for i, label := range want {
		if s.Categories[i].Label != label {
			t.Errorf("Categories[%d] = %q, want %q", i, s.Categories[i].Label, label)
		}
	}
}

func TestDefault_TagKeywordOrder(t *testing.T) {
	want := []string{"authentication", "ui", "api", "security", "admin", "development", "configuration"}
	s := Default()
	if len(s.TagKeywords) != len(want) {
		t.Fatalf("len(TagKeywords) = %d, want %d", len(s.TagKeywords), len(want))
	}
	for i, kw := range want {
		if s.TagKeywords[i] != kw {
			t.Errorf("TagKeywords[%d] = %q, want %q", i, s.TagKeywords[i], kw)
		}
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	s := Default()
	// Contains keywords from both Authentication System ("login") and
	// Admin & Management ("dashboard"); the earlier category must win.
	got := s.Classify("the login page links to the dashboard")
	if got != "Authentication System" {
		t.Errorf("Classify = %q, want %q", got, "Authentication System")
	}
}

func TestClassify_SecondCategory(t *testing.T) {
	s := Default()
	got := s.Classify("the dashboard shows management widgets")
	if got != "Admin & Management" {
		t.Errorf("Classify = %q, want %q", got, "Admin & Management")
	}
}

func TestClassify_NoMatchDefaults(t *testing.T) {
	s := Default()
	got := s.Classify("completely unrelated prose about gardening")
	if got != "Uncategorized" {
		t.Errorf("Classify = %q, want %q", got, "Uncategorized")
	}
}

func TestClassify_SubstringMatch(t *testing.T) {
	s := Default()
	// "dialogue" contains "log", a Development & UI keyword. Substring
	// matching is the contract, not word matching.
	got := s.Classify("a dialogue between two services")
	if got != "Development & UI" {
		t.Errorf("Classify = %q, want %q", got, "Development & UI")
	}
}

func TestMatchTags_FollowsKeywordOrder(t *testing.T) {
	s := Default()
	// "api" appears before "ui" in the text; tag order must still follow
	// the keyword list (ui before api).
	tags := s.MatchTags("api design for the ui layer")
	want := []string{"#ui", "#api"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestMatchTags_NoDuplicates(t *testing.T) {
	s := Default()
	tags := s.MatchTags("api api api everywhere in this api doc")
	if len(tags) != 1 || tags[0] != "#api" {
		t.Errorf("tags = %v, want [#api]", tags)
	}
}

func TestMatchTags_NoneMatch(t *testing.T) {
	s := Default()
	if tags := s.MatchTags("nothing relevant here"); len(tags) != 0 {
		t.Errorf("tags = %v, want none", tags)
	}
}

func TestValidate_DuplicateLabel(t *testing.T) {
	s := Default()
	s.Categories = append(s.Categories, Category{Label: "Security", Keywords: []string{"x"}})
	err := s.Validate()
	if err == nil {
		t.Fatal("duplicate label should fail validation")
	}
	if !strings.Contains(err.Error(), "duplicate category label") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateTagKeyword(t *testing.T) {
	s := Default()
	s.TagKeywords = append(s.TagKeywords, "api")
	err := s.Validate()
	if err == nil {
		t.Fatal("duplicate tag keyword should fail validation")
	}
	if !strings.Contains(err.Error(), "duplicate tag keyword") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyKeywords(t *testing.T) {
	s := Default()
	s.Categories[0].Keywords = nil
	if err := s.Validate(); err == nil {
		t.Fatal("category without keywords should fail validation")
	}
}

func TestValidate_UppercaseKeyword(t *testing.T) {
	s := Default()
	s.Categories[0].Keywords = []string{"Auth"}
	if err := s.Validate(); err == nil {
		t.Fatal("non-lower-case keyword should fail validation")
	}
}

func TestValidate_MissingDefaultCategory(t *testing.T) {
	s := Default()
	s.DefaultCategory = ""
	if err := s.Validate(); err == nil {
		t.Fatal("missing default category should fail validation")
	}
}

func TestValidate_NoCategories(t *testing.T) {
	s := Default()
	s.Categories = nil
	if err := s.Validate(); err == nil {
		t.Fatal("empty category list should fail validation")
	}
}
