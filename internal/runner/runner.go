// Package runner wires one scan end to end: browser, traversal, report and
// notification.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/slotwatch/internal/config"
	"github.com/go-scripts/slotwatch/internal/notify"
	"github.com/go-scripts/slotwatch/internal/report"
	"github.com/go-scripts/slotwatch/internal/scan"
	"github.com/go-scripts/slotwatch/internal/types"
	"github.com/go-scripts/slotwatch/internal/writer"
)

// PageOpener starts a page session; the returned func releases it
type PageOpener func(ctx context.Context) (scan.Page, func(), error)

// Runner performs scans. RunScan must not be called concurrently.
type Runner struct {
	cfg       config.Config
	open      PageOpener
	notifier  notify.Notifier
	formatter *report.Formatter
	logger    *log.Logger
	out       io.Writer
	progress  scan.Progress
	outPath   string
	now       func() time.Time
}

// Option customizes a Runner
type Option func(*Runner)

// WithProgress reports scan progress to p
func WithProgress(p scan.Progress) Option {
	return func(r *Runner) { r.progress = p }
}

// WithResultFile also writes every result as JSON to path
func WithResultFile(path string) Option {
	return func(r *Runner) { r.outPath = path }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New builds a Runner. Findings tables are written to out.
func New(cfg config.Config, open PageOpener, n notify.Notifier, logger *log.Logger, out io.Writer, opts ...Option) (*Runner, error) {
	formatter, err := report.NewFormatter(report.Options{
		Header:        cfg.Report.Header,
		EmptyTemplate: cfg.Report.EmptyTemplate,
		TimeZone:      cfg.Report.TimeZone,
	})
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:       cfg,
		open:      open,
		notifier:  n,
		formatter: formatter,
		logger:    logger,
		out:       out,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunScan performs one scan and reports it. Only scan failures are
// returned; delivery problems are logged.
func (r *Runner) RunScan(ctx context.Context) error {
	start := r.now()
	r.logger.Info("starting scan", "entry", r.cfg.Site.EntryURL)

	result, err := r.scan(ctx)
	if err != nil {
		r.logger.Error("scan failed", "err", err, "elapsed", r.now().Sub(start).Round(time.Second))
		return err
	}

	r.logger.Info("scan finished",
		"findings", len(result.Findings),
		"elapsed", r.now().Sub(start).Round(time.Second))

	if r.outPath != "" {
		if err := writer.WriteResult(r.outPath, result); err != nil {
			r.logger.Warn("failed to write result file", "path", r.outPath, "err", err)
		}
	}

	message, err := r.formatter.Format(result)
	if err != nil {
		return err
	}

	if result.Empty() {
		r.logger.Info(message)
		if !r.cfg.Report.NotifyOnEmpty {
			return nil
		}
	} else {
		report.RenderTable(r.out, result.Findings)
	}

	notify.Deliver(ctx, r.logger, r.notifier, message)
	return nil
}

func (r *Runner) scan(ctx context.Context) (types.ScanResult, error) {
	page, release, err := r.open(ctx)
	if err != nil {
		return types.ScanResult{}, fmt.Errorf("failed to open browser: %w", err)
	}
	defer release()

	scanner := scan.New(page, r.cfg.Site, r.formatter.Stamp,
		scan.WithClock(r.now),
		scan.WithLogger(r.logger),
		scan.WithProgress(r.progress),
	)
	return scanner.Run(ctx)
}
