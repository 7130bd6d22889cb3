// Package collector runs the gated collection pipeline: listing download,
// detail URL discovery, detail download, extraction and output.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tknemuru/kindergarten-collecting/internal/config"
	"github.com/tknemuru/kindergarten-collecting/internal/detail"
	"github.com/tknemuru/kindergarten-collecting/internal/fetcher"
	"github.com/tknemuru/kindergarten-collecting/internal/listing"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
	"github.com/tknemuru/kindergarten-collecting/internal/pagestore"
	"github.com/tknemuru/kindergarten-collecting/internal/sink"
	"github.com/tknemuru/kindergarten-collecting/internal/table"
)

//go:generate mockgen -destination=../../testutils/mocks/collector/downloader.go -package=collector . Downloader

// Downloader fetches a batch of URLs into files.
type Downloader interface {
	Download(ctx context.Context, req fetcher.Request) ([]string, error)
}

// Result describes one pipeline run.
type Result struct {
	RunID        string
	StartedAt    time.Time
	Duration     time.Duration
	ListingFiles []string
	DetailURLs   []string
	DetailFiles  []string
	Schema       *detail.Schema
	Records      []detail.Record
	OutputPath   string
}

// Collector wires the pipeline stages together.
type Collector struct {
	cfg        *config.Config
	downloader Downloader
	extractor  *detail.Extractor
	sinks      []sink.Sink
	log        logger.Interface
	now        func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithSinks publishes every run's records to the given sinks.
func WithSinks(sinks ...sink.Sink) Option {
	return func(c *Collector) {
		c.sinks = append(c.sinks, sinks...)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// New creates a Collector.
func New(cfg *config.Config, downloader Downloader, log logger.Interface, opts ...Option) *Collector {
	c := &Collector{
		cfg:        cfg,
		downloader: downloader,
		extractor:  detail.NewExtractor(cfg.Extractor, log.WithComponent("extractor")),
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the pipeline once. Stages whose gate is off are skipped and
// later stages work from whatever is already on disk. Sink failures are
// returned after the CSV has been written.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      uuid.NewString(),
		StartedAt:  c.now(),
		OutputPath: c.cfg.Output.Path,
	}
	log := c.log.With("run_id", res.RunID)
	col := c.cfg.Collector

	if col.RequiredParentsDownload {
		files, err := c.downloadParents(ctx, log)
		if err != nil {
			return nil, err
		}
		res.ListingFiles = files
	}

	if col.RequiredKindersDownload {
		urls, files, err := c.downloadKinders(ctx, log)
		if err != nil {
			return nil, err
		}
		res.DetailURLs = urls
		res.DetailFiles = files
	}

	kindersDir := col.KindersDir()
	names, err := pagestore.List(kindersDir)
	if err != nil {
		return nil, err
	}
	schema, records, err := c.extractor.Extract(names, kindersDir)
	if err != nil {
		return nil, err
	}
	res.Schema = schema
	res.Records = records

	if err := table.Write(schema, records, c.cfg.Output.Path, table.WithBOM(c.cfg.Output.BOM)); err != nil {
		return nil, err
	}
	log.Info("write end", "path", c.cfg.Output.Path, "records", len(records), "fields", schema.Len())

	sinkErr := c.publish(ctx, log, res)
	res.Duration = c.now().Sub(res.StartedAt)
	return res, sinkErr
}

func (c *Collector) downloadParents(ctx context.Context, log logger.Interface) ([]string, error) {
	col := c.cfg.Collector
	if col.AllClear {
		if err := c.purge(log, col.AllParentsDir); err != nil {
			return nil, err
		}
	}
	if err := c.purge(log, col.CurrParentsDir); err != nil {
		return nil, err
	}

	files, err := c.downloader.Download(ctx, fetcher.Request{
		URLs:     col.TargetURLs,
		FileName: pagestore.ListingNamer(col.ParentsDir()),
	})
	if err != nil {
		return nil, fmt.Errorf("download listing pages: %w", err)
	}
	log.Info("listing pages downloaded", "dir", col.ParentsDir(), "files", len(files))
	return files, nil
}

func (c *Collector) downloadKinders(ctx context.Context, log logger.Interface) ([]string, []string, error) {
	col := c.cfg.Collector

	urls, err := listing.ExtractDetailURLs(col.ParentsDir(), col.BaseURL, col.DetailLinkPattern)
	if err != nil {
		return nil, nil, fmt.Errorf("extract detail urls: %w", err)
	}
	log.Info("detail urls extracted", "dir", col.ParentsDir(), "urls", len(urls))

	if col.AllClear {
		if err := c.purge(log, col.AllKindersDir); err != nil {
			return nil, nil, err
		}
	}
	if err := c.purge(log, col.CurrKindersDir); err != nil {
		return nil, nil, err
	}

	var files []string
	for _, dir := range []string{col.CurrKindersDir, col.AllKindersDir} {
		downloaded, err := c.downloader.Download(ctx, fetcher.Request{
			URLs:     urls,
			FileName: pagestore.DetailNamer(dir),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("download detail pages into %s: %w", dir, err)
		}
		log.Info("detail pages downloaded", "dir", dir, "files", len(downloaded))
		if dir == col.KindersDir() {
			files = downloaded
		}
	}
	return urls, files, nil
}

func (c *Collector) purge(log logger.Interface, dir string) error {
	removed, err := pagestore.Purge(dir)
	if err != nil {
		return err
	}
	log.Info("directory purged", "dir", dir, "removed", removed)
	return nil
}

func (c *Collector) publish(ctx context.Context, log logger.Interface, res *Result) error {
	if len(c.sinks) == 0 {
		return nil
	}

	batch := sink.Batch{
		RunID:       res.RunID,
		CollectedAt: res.StartedAt,
		NameField:   c.cfg.Extractor.NameField,
		Schema:      res.Schema,
		Records:     res.Records,
	}

	var errs []error
	for _, s := range c.sinks {
		if err := s.Write(ctx, batch); err != nil {
			log.Error("sink failed", "sink", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name(), err))
			continue
		}
		log.Info("sink written", "sink", s.Name(), "records", len(res.Records))
	}
	return errors.Join(errs...)
}
