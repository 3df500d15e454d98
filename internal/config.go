package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/muninn/internal/rules"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Docs    DocsConfig        `yaml:"docs"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Rules   rules.Set         `yaml:"rules"`
}

// Validate validates the configuration. A config file that says nothing
// about rules gets the built-in classification table.
func (c *Config) Validate() error {
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if c.Rules.IsZero() {
		c.Rules = rules.Default()
	}
	return c.Rules.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// DocsConfig describes the documents directory and the names of the
// generated artifacts inside it.
type DocsConfig struct {
	Path         string   `yaml:"path"`
	Extensions   []string `yaml:"extensions"`
	IndexFile    string   `yaml:"index_file"`
	QuickRefFile string   `yaml:"quick_ref_file"`
	SnapshotFile string   `yaml:"snapshot_file"`
}

// Validate validates the documents configuration.
func (c *DocsConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Extensions, validation.Required),
		validation.Field(&c.IndexFile, validation.Required),
		validation.Field(&c.QuickRefFile, validation.Required),
		validation.Field(&c.SnapshotFile, validation.Required),
	); err != nil {
		return err
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("docs: extension %q must start with a dot", ext)
		}
	}
	return nil
}

// Reserved returns the file names that are outputs of the pipeline and must
// never be scanned as inputs, at any depth.
func (c *DocsConfig) Reserved() []string {
	return []string{c.IndexFile, c.QuickRefFile}
}

// CatalogConfig holds the SQLite catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Docs: DocsConfig{
			Path:         "./docs",
			Extensions:   []string{".md"},
			IndexFile:    "INDEX.md",
			QuickRefFile: "QUICK_REFERENCE.md",
			SnapshotFile: "metadata.json",
		},
		Catalog: CatalogConfig{
			Path: "./muninn.db",
		},
		Rules: rules.Default(),
	}
}
