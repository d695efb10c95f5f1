package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"FilingWatch/internal/config"
	"FilingWatch/internal/domain"
	"FilingWatch/internal/infrastructure/browser"
	"FilingWatch/internal/infrastructure/mail"
	"FilingWatch/internal/infrastructure/parser"
	"FilingWatch/internal/infrastructure/scheduler"
	"FilingWatch/internal/infrastructure/storage"
	"FilingWatch/internal/logging"
	"FilingWatch/internal/ports"
	"FilingWatch/internal/usecase"
)

// Application wires configuration to adapters and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	driver   *browser.Driver
	pipeline *usecase.Pipeline
	closer   func() error
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	rules := domain.BuildRules(cfg.Watch.ProductCodes, cfg.Watch.Applicants)
	if len(rules) == 0 {
		baseLogger.Warn("no watch rules configured; runs will report an empty ledger only")
	}

	store, closer, err := newLedgerStore(cfg.Ledger)
	if err != nil {
		return nil, err
	}

	driver := browser.New(cfg.Search, baseLogger.With("component", "browser"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    driver,
		Extractor: parser.NewExtractor(baseLogger.With("component", "extractor")),
		Store:     store,
		Notifier:  mail.NewNotifier(cfg.SMTP, baseLogger.With("component", "mail")),
		Rules:     rules,
		Capacity:  cfg.Ledger.Capacity,
		Location:  cfg.Scheduler.Location(),
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		driver:   driver,
		pipeline: pipeline,
		closer:   closer,
	}, nil
}

func newLedgerStore(cfg config.LedgerConfig) (ports.LedgerStore, func() error, error) {
	switch cfg.Backend {
	case "", "file":
		return storage.NewJSONStore(cfg.Path), nil, nil
	case "sqlite":
		st, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

// RunOnce performs a single watch pass: one browser session, all rules in
// sequence, one ledger persist at the end.
func (a *Application) RunOnce(ctx context.Context) error {
	if err := a.driver.Start(ctx); err != nil {
		return err
	}
	defer a.driver.Close()

	return a.pipeline.Run(ctx)
}

// Watch runs the pipeline on the configured interval until ctx is canceled.
func (a *Application) Watch(ctx context.Context) error {
	sched := scheduler.NewIntervalScheduler(a.cfg.Scheduler.IntervalD())
	err := sched.Start(ctx, func(time.Time) {
		if err := a.RunOnce(ctx); err != nil {
			a.logger.Error("watch run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases held resources, such as the SQLite ledger handle.
func (a *Application) Close() error {
	if a.closer != nil {
		return a.closer()
	}
	return nil
}
