package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Pipeline runs one collection cycle: collect, archive, publish, summarize.
// Every step processes its input strictly in order with no concurrency.
type Pipeline struct {
	collector   *Collector
	archive     *ArchiveWriter
	publisher   *Publisher
	digest      *DigestWriter // optional
	summaryPath string
	log         *logrus.Logger
	now         func() time.Time
}

// NewPipeline wires the components together. digest may be nil.
func NewPipeline(collector *Collector, archive *ArchiveWriter, publisher *Publisher, digest *DigestWriter, summaryPath string, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		collector:   collector,
		archive:     archive,
		publisher:   publisher,
		digest:      digest,
		summaryPath: summaryPath,
		log:         log,
		now:         time.Now,
	}
}

// Run executes one full run. Per-item failures are absorbed by the components;
// an error returned here is fatal for the run. A run that finds zero articles
// skips the archive and the store entirely and still counts as a success.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	started := p.now()

	articles, err := p.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		Timestamp:     started,
		ArticlesFound: len(articles),
	}

	if len(articles) == 0 {
		p.log.Info("No articles found, nothing to archive")
		if err := p.writeSummary(summary); err != nil {
			return nil, err
		}
		return summary, nil
	}

	digest := ""
	if p.digest != nil {
		p.log.Info("→ Writing digest...")
		digest, err = p.digest.Digest(articles)
		if err != nil {
			p.log.Warnf("Digest failed, continuing without it: %v", err)
			digest = ""
		}
	}

	path, err := p.archive.Write(started, digest, articles)
	if err != nil {
		return nil, err
	}
	p.log.Infof("✓ Archived %d articles to %s", len(articles), path)

	if err := p.archive.UpdateIndex(started, len(articles)); err != nil {
		return nil, err
	}

	results := p.publisher.Publish(ctx, articles)
	for _, result := range results {
		if result.Success() {
			summary.ArticlesPublished++
		}
	}
	p.log.Infof("Published %d/%d articles", summary.ArticlesPublished, len(results))

	if err := p.writeSummary(summary); err != nil {
		return nil, err
	}

	return summary, nil
}

func (p *Pipeline) writeSummary(summary *RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}

	if dir := filepath.Dir(p.summaryPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating summary directory: %w", err)
		}
	}
	if err := os.WriteFile(p.summaryPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing run summary: %w", err)
	}

	return nil
}
