package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"FilingWatch/internal/domain"
	"FilingWatch/internal/ledger"
	"FilingWatch/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.PageSource
	Extractor ports.Extractor
	Store     ports.LedgerStore
	Notifier  ports.Notifier
	Rules     []domain.WatchRule
	Capacity  int
	Location  *time.Location
	Logger    *slog.Logger
}

// Pipeline implements one watch run: load the ledger, drive each rule's
// search, classify extracted records, mail the digest, persist the ledger.
type Pipeline struct {
	source    ports.PageSource
	extractor ports.Extractor
	store     ports.LedgerStore
	notifier  ports.Notifier
	rules     []domain.WatchRule
	capacity  int
	location  *time.Location
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		source:    deps.Source,
		extractor: deps.Extractor,
		store:     deps.Store,
		notifier:  deps.Notifier,
		rules:     deps.Rules,
		capacity:  deps.Capacity,
		location:  loc,
		logger:    log,
	}
}

// Run executes one complete watch pass. Per-rule and per-page failures are
// contained: a failed rule contributes no pages and the run continues. The
// ledger is persisted exactly once, after all rules were attempted; a
// notifier failure never prevents that persistence.
func (p *Pipeline) Run(ctx context.Context) error {
	seen, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	led := ledger.New(seen)

	var findings []domain.Finding
	for _, rule := range p.rules {
		p.logger.Info("searching", "rule", rule.Label())

		pages, err := p.source.Search(ctx, rule)
		if err != nil {
			p.logger.Warn("rule failed, continuing with remaining rules",
				"rule", rule.Label(), "error", err)
		}

		for _, page := range pages {
			records, err := p.extractor.ExtractPage(page)
			if err != nil {
				p.logger.Warn("page extraction failed", "rule", rule.Label(), "error", err)
				continue
			}
			for _, rec := range led.Classify(records) {
				findings = append(findings, domain.Finding{RuleLabel: rule.Label(), Record: rec})
			}
		}
	}

	digest, err := BuildDigest(findings, p.rules, led.Size(), time.Now().In(p.location))
	if err != nil {
		p.logger.Error("digest rendering failed", "error", err)
	} else if p.notifier != nil {
		if err := p.notifier.Send(ctx, digest.Subject, digest.BodyHTML); err != nil {
			p.logger.Error("notifier failed", "error", err)
		}
	}

	if err := p.store.Save(ctx, led.Snapshot(p.capacity)); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}

	p.logger.Info("run complete",
		"rules", len(p.rules), "new", len(findings), "ledger", led.Size())
	return nil
}
