package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"FilingWatch/internal/config"
	"FilingWatch/internal/domain"
	"FilingWatch/internal/ports"
)

const (
	probeTimeout = 3 * time.Second
	stepTimeout  = 10 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Driver walks the 510(k) search interaction for one rule at a time inside a
// single Chrome session: navigate, fill the rule's field, submit, then
// collect every result page until the next-page control disappears. Rules run
// strictly sequentially so the session behaves like one human visitor.
type Driver struct {
	cfg    config.SearchConfig
	logger *slog.Logger

	browserCtx context.Context
	cancels    []context.CancelFunc
}

var _ ports.PageSource = (*Driver)(nil)

// New builds an unstarted driver.
func New(cfg config.SearchConfig, log *slog.Logger) *Driver {
	return &Driver{cfg: cfg, logger: log}
}

// Start launches the browser. The session is reused across all rules of a
// run; Close must be called when the run ends.
func (d *Driver) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !d.cfg.Headful),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	d.cancels = []context.CancelFunc{cancelBrowser, cancelAlloc}
	d.browserCtx = browserCtx

	if err := chromedp.Run(browserCtx); err != nil {
		d.Close()
		return fmt.Errorf("launch browser: %w", err)
	}
	return nil
}

// Close tears the session down.
func (d *Driver) Close() {
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
	d.browserCtx = nil
}

// Search drives one rule's query to completion and returns the raw HTML of
// every result page visited. Navigation and submit failures end the rule
// with whatever was collected; the caller proceeds with remaining rules.
func (d *Driver) Search(ctx context.Context, rule domain.WatchRule) ([]string, error) {
	if d.browserCtx == nil {
		return nil, fmt.Errorf("driver not started")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := d.navigate(); err != nil {
		return nil, err
	}

	d.fillField(rule)
	d.selectSort()

	if err := d.submit(); err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.Label(), err)
	}
	d.waitStable()

	var pages []string
	for {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		var html string
		if err := d.run(stepTimeout, chromedp.OuterHTML("html", &html)); err != nil {
			return pages, fmt.Errorf("read result page: %w", err)
		}
		pages = append(pages, html)

		if !d.nextPage() {
			break
		}
		d.waitStable()
	}

	d.logger.Info("search complete", "rule", rule.Label(), "pages", len(pages))
	return pages, nil
}

func (d *Driver) navigate() error {
	timeout := d.cfg.NavigationTimeoutD()
	err := d.run(timeout, chromedp.Navigate(d.cfg.BaseURL), chromedp.WaitReady("body"))
	if err == nil {
		return nil
	}
	d.logger.Warn("navigation failed, trying fallback", "url", d.cfg.BaseURL, "error", err)

	if d.cfg.FallbackURL == "" {
		return fmt.Errorf("navigate %s: %w", d.cfg.BaseURL, err)
	}
	if err := d.run(timeout, chromedp.Navigate(d.cfg.FallbackURL), chromedp.WaitReady("body")); err != nil {
		return fmt.Errorf("navigate fallback %s: %w", d.cfg.FallbackURL, err)
	}
	return nil
}

// fillField tries each lookup strategy in order; the first control found
// wins. Finding none degrades to an unfiltered query rather than failing
// the rule.
func (d *Driver) fillField(rule domain.WatchRule) {
	for _, loc := range fieldLocators(rule.Kind) {
		if !d.present(loc) {
			continue
		}
		if err := d.run(stepTimeout, chromedp.SendKeys(loc.sel, rule.Value, loc.opts...)); err != nil {
			d.logger.Debug("field fill failed", "strategy", loc.name, "error", err)
			continue
		}
		d.logger.Debug("field filled", "strategy", loc.name, "kind", string(rule.Kind))
		return
	}
	d.logger.Warn("search field not found, querying without it", "kind", string(rule.Kind))
}

// selectSort asks for decision-date descending; the default ordering is the
// same, so a missing or renamed control is ignored.
func (d *Driver) selectSort() {
	loc := locator{name: "sort select", sel: `select[name*="sort" i]`, opts: byQuery()}
	if !d.present(loc) {
		return
	}
	if err := d.run(stepTimeout, chromedp.SetValue(loc.sel, "Decision Date (descending)", loc.opts...)); err != nil {
		d.logger.Debug("sort selection failed", "error", err)
	}
}

func (d *Driver) submit() error {
	for _, loc := range submitLocators() {
		if !d.present(loc) {
			continue
		}
		if err := d.run(stepTimeout, chromedp.Click(loc.sel, append(loc.opts, chromedp.NodeVisible)...)); err != nil {
			d.logger.Debug("submit click failed", "strategy", loc.name, "error", err)
			continue
		}
		d.logger.Debug("search submitted", "strategy", loc.name)
		return nil
	}
	return fmt.Errorf("no strategy triggered the search action")
}

// nextPage clicks the pagination control when one exists. A click failure
// ends the walk; collected pages are kept.
func (d *Driver) nextPage() bool {
	for _, loc := range nextLocators() {
		if !d.present(loc) {
			continue
		}
		if err := d.run(stepTimeout, chromedp.Click(loc.sel, append(loc.opts, chromedp.NodeVisible)...)); err != nil {
			d.logger.Debug("next-page click failed", "strategy", loc.name, "error", err)
			return false
		}
		return true
	}
	return false
}

// waitStable blocks until the document settles or the bounded wait expires;
// a timeout proceeds anyway since content is often readable regardless.
func (d *Driver) waitStable() {
	var ready bool
	err := d.run(d.cfg.StabilizeTimeoutD(),
		chromedp.Poll(`document.readyState === "complete"`, &ready))
	if err != nil {
		d.logger.Debug("stabilize wait expired, proceeding", "error", err)
	}
}

// present probes a locator without blocking on absence.
func (d *Driver) present(loc locator) bool {
	var nodes []*cdp.Node
	err := d.run(probeTimeout,
		chromedp.Nodes(loc.sel, &nodes, append(loc.opts, chromedp.AtLeast(0))...))
	return err == nil && len(nodes) > 0
}

func (d *Driver) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(d.browserCtx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}
