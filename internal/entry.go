// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/muninn/internal/catalog"
	"github.com/starford/muninn/internal/extract"
	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/render"
	"github.com/starford/muninn/internal/scan"
	"github.com/starford/muninn/internal/snapshot"
	"github.com/starford/muninn/internal/storage"
	"github.com/starford/muninn/internal/watch"
)

// pipeline bundles the wired components of one configured run.
type pipeline struct {
	cfg     *Config
	clock   func() time.Time
	logger  *slog.Logger
	store   *storage.FS
	scanner *scan.Scanner
	db      *catalog.DB
}

// Run executes one full indexing pass with the given options.
func Run(ctx context.Context, opts ...Option) error {
	p, err := buildPipeline(opts)
	if err != nil {
		return err
	}
	defer p.db.Close()

	return p.runOnce()
}

// RunWatch executes an initial indexing pass, then keeps the outputs current
// until ctx is cancelled or a shutdown signal arrives.
func RunWatch(ctx context.Context, opts ...Option) error {
	p, err := buildPipeline(opts)
	if err != nil {
		return err
	}
	defer p.db.Close()

	if err := p.runOnce(); err != nil {
		p.logger.Warn("Initial pass failed", slog.String("error", err.Error()))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch.Watch(gCtx, p.scanner.Root(), p.scanner.Eligible, p.logger, p.runOnce)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			p.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		p.logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	p.logger.Info("Watcher stopped")
	return nil
}

// RunSearch queries the catalog written by a previous run and prints one
// tab-separated hit per line to out.
func RunSearch(ctx context.Context, out io.Writer, query string, limit int, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	newLogger(cfg)

	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	results, err := db.Search(query, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s\t%s\t%s\n", r.Path, r.Title, r.Snippet)
	}
	return nil
}

// newLogger initializes the structured JSON logger.
func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func buildPipeline(opts []Option) (*pipeline, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(cfg)
	logger.Info("Configuration loaded",
		slog.String("docs_path", cfg.Docs.Path),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure the documents directory exists.
	if err := os.MkdirAll(cfg.Docs.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create docs dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Docs.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	scanner, err := scan.New(cfg.Docs.Path, cfg.Docs.Extensions, cfg.Docs.Reserved())
	if err != nil {
		return nil, fmt.Errorf("init scanner: %w", err)
	}

	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	clock := app.clock
	if clock == nil {
		clock = time.Now
	}

	return &pipeline{
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		store:   store,
		scanner: scanner,
		db:      db,
	}, nil
}

// runOnce executes scan, extract, render, and persist as one pass. The clock
// is read exactly once so the index header and the snapshot agree on the run
// time. A file that cannot be read or parsed degrades to fallback metadata
// instead of failing the pass; scanner and writer errors are fatal.
func (p *pipeline) runOnce() error {
	now := p.clock()

	p.logger.Info("Scanning documents", slog.String("path", p.scanner.Root()))
	files, err := p.scanner.Scan()
	if err != nil {
		return err
	}
	p.logger.Info("Documents found", slog.Int("count", len(files)))

	docs := make([]models.Document, 0, len(files))
	entries := make([]catalog.Entry, 0, len(files))
	for _, f := range files {
		var meta extract.Metadata
		var body string

		data, err := p.store.Read(f.Path)
		if err != nil {
			p.logger.Warn("Read failed, using fallback metadata",
				slog.String("path", f.Path),
				slog.String("error", err.Error()))
			meta = extract.Fallback(f.Name, &p.cfg.Rules)
		} else {
			res := extract.Extract(f.Name, data, &p.cfg.Rules)
			if res.Err != nil {
				p.logger.Warn("Extraction failed, using fallback metadata",
					slog.String("path", f.Path),
					slog.String("error", res.Err.Error()))
			} else {
				body = string(data)
			}
			meta = res.Meta
		}

		doc := models.Document{
			Path:     f.Path,
			Name:     f.Name,
			Modified: f.Modified,
			Size:     f.Size,
			Title:    meta.Title,
			Category: meta.Category,
			Tags:     meta.Tags,
			Summary:  meta.Summary,
			Headers:  meta.Headers,
		}
		docs = append(docs, doc)
		entries = append(entries, catalog.Entry{Doc: doc, Body: body})
	}

	indexDoc := render.Index(docs, now)
	if err := p.store.Write(p.cfg.Docs.IndexFile, []byte(indexDoc)); err != nil {
		return err
	}
	p.logger.Info("Index written", slog.String("path", p.cfg.Docs.IndexFile))

	snap := snapshot.Build(docs, now)
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if err := p.store.Write(p.cfg.Docs.SnapshotFile, data); err != nil {
		return err
	}
	p.logger.Info("Snapshot written", slog.String("path", p.cfg.Docs.SnapshotFile))

	if err := p.db.Rebuild(entries); err != nil {
		return err
	}
	n, err := p.db.Count()
	if err != nil {
		return err
	}
	p.logger.Info("Catalog rebuilt", slog.Int("documents", n))

	p.logger.Info("Update complete")
	return nil
}
