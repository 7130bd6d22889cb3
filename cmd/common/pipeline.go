package common

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/tknemuru/kindergarten-collecting/internal/archive"
	"github.com/tknemuru/kindergarten-collecting/internal/collector"
	"github.com/tknemuru/kindergarten-collecting/internal/fetcher"
	"github.com/tknemuru/kindergarten-collecting/internal/pagestore"
	"github.com/tknemuru/kindergarten-collecting/internal/server"
	"github.com/tknemuru/kindergarten-collecting/internal/sink"
)

// Pipeline is a fully wired collector plus the health checks of the external
// services it uses.
type Pipeline struct {
	Collector *collector.Collector
	Checks    map[string]server.HealthChecker
	closers   []func() error
}

// Close releases database connections and other resources.
func (p *Pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		_ = p.closers[i]()
	}
}

// BuildPipeline wires the fetcher, archiver and sinks described by the
// configuration into a collector.
func BuildPipeline(ctx context.Context, deps *CommandDeps) (*Pipeline, error) {
	cfg := deps.Config
	log := deps.Logger
	p := &Pipeline{Checks: map[string]server.HealthChecker{}}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Collector.CreateDirs {
		dirs := append(cfg.Collector.Dirs(), filepath.Dir(cfg.Output.Path))
		if err := pagestore.EnsureDirs(dirs...); err != nil {
			return nil, err
		}
	}

	getter, err := fetcher.NewGetter(cfg.Fetcher)
	if err != nil {
		return nil, err
	}

	opts := []fetcher.Option{
		fetcher.WithDelay(fetcher.FixedDelay(cfg.Fetcher.Delay)),
		fetcher.WithRetry(fetcher.RetryConfig(cfg.Fetcher)),
	}

	if cfg.Fetcher.RespectRobotsTxt {
		client := &http.Client{Timeout: cfg.Fetcher.RequestTimeout}
		opts = append(opts, fetcher.WithRobots(fetcher.NewRobotsChecker(client, cfg.Fetcher.UserAgent, 0)))
	}

	archiver, err := archive.NewArchiver(cfg.MinIO, log.WithComponent("archive"))
	if err != nil {
		return nil, err
	}
	if archiver.Enabled() {
		opts = append(opts, fetcher.WithArchiver(archiver))
		p.Checks["minio"] = archiver.HealthCheck
	}

	sinks, err := p.buildSinks(ctx, deps)
	if err != nil {
		p.Close()
		return nil, err
	}

	downloader := fetcher.NewDownloader(getter, log.WithComponent("fetcher"), opts...)
	p.Collector = collector.New(cfg, downloader, log.WithComponent("collector"), collector.WithSinks(sinks...))
	return p, nil
}

func (p *Pipeline) buildSinks(ctx context.Context, deps *CommandDeps) ([]sink.Sink, error) {
	cfg := deps.Config
	var sinks []sink.Sink

	if cfg.Database.Enabled {
		db, err := sink.NewPostgresConnection(cfg.Database)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, db.Close)

		pg := sink.NewPostgres(db, cfg.Database.Table)
		if err := pg.EnsureTable(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, pg)
		p.Checks["postgres"] = db.PingContext
		deps.Logger.Info("Postgres sink enabled", "table", cfg.Database.Table)
	}

	if cfg.Elasticsearch.Enabled {
		client, err := sink.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink.NewElasticsearch(client, cfg.Elasticsearch.Index))
		p.Checks["elasticsearch"] = func(ctx context.Context) error {
			res, err := client.Info(client.Info.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return fmt.Errorf("elasticsearch: %s", res.Status())
			}
			return nil
		}
		deps.Logger.Info("Elasticsearch sink enabled", "index", cfg.Elasticsearch.Index)
	}

	return sinks, nil
}
