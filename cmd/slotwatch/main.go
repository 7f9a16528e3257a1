package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/slotwatch/internal/browser"
	"github.com/go-scripts/slotwatch/internal/config"
	"github.com/go-scripts/slotwatch/internal/notify"
	"github.com/go-scripts/slotwatch/internal/progress"
	"github.com/go-scripts/slotwatch/internal/runner"
	"github.com/go-scripts/slotwatch/internal/scan"
	"github.com/go-scripts/slotwatch/internal/schedule"
)

// Globals are flags shared by every command
type Globals struct {
	Config  string `help:"Path to configuration file" default:"slotwatch.json5" short:"c"`
	Env     string `help:"Path to a dotenv file holding secrets" default:".env"`
	Debug   bool   `help:"Enable debug logging" default:"false"`
	Headful bool   `help:"Show the browser window" default:"false"`
	Out     string `help:"Also write each scan result as JSON to this file" short:"o"`
}

// CLI is the command line of slotwatch
type CLI struct {
	Globals

	Scan  ScanCmd  `cmd:"" default:"1" help:"Run a single availability scan"`
	Watch WatchCmd `cmd:"" help:"Run scans on the configured cron schedule"`
}

var bannerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205")).
	Bold(true)

// app holds everything a command needs to run scans
type app struct {
	cfg     config.Config
	logger  *log.Logger
	runner  *runner.Runner
	tracker *progress.Tracker
}

func newApp(g *Globals) (*app, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "slotwatch",
	})
	if g.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	if err := config.LoadEnv(g.Env); err != nil {
		return nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Headful {
		cfg.Browser.Headful = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n, err := notify.FromConfig(cfg.Notifier, logger)
	if err != nil {
		return nil, err
	}

	open := func(ctx context.Context) (scan.Page, func(), error) {
		c, err := browser.NewChrome(ctx, browser.Options{
			Headful:       cfg.Browser.Headful,
			ExecPath:      cfg.Browser.ExecPath,
			UserAgent:     cfg.Browser.UserAgent,
			ActionTimeout: cfg.Browser.ActionTimeout.Duration,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}

	a := &app{cfg: cfg, logger: logger}
	opts := []runner.Option{runner.WithResultFile(g.Out)}
	if !g.Debug {
		a.tracker = progress.New(os.Stderr)
		opts = append(opts, runner.WithProgress(a.tracker))
	}

	a.runner, err = runner.New(cfg, open, n, logger, os.Stdout, opts...)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// runOnce performs one scan with the spinner running
func (a *app) runOnce(ctx context.Context) error {
	if a.tracker != nil {
		a.tracker.Start()
		defer a.tracker.Stop()
	}
	return a.runner.RunScan(ctx)
}

// ScanCmd runs one scan and exits non-zero when it fails
type ScanCmd struct{}

func (c *ScanCmd) Run(g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.runOnce(ctx)
}

// WatchCmd scans on a schedule until interrupted
type WatchCmd struct {
	Schedule    string `help:"Cron spec overriding watch.schedule"`
	Immediately bool   `help:"Run a scan right away instead of waiting for the first tick"`
}

func (c *WatchCmd) Run(g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}

	spec := a.cfg.Watch.Schedule
	if c.Schedule != "" {
		spec = c.Schedule
	}

	loc, err := time.LoadLocation(a.cfg.Report.TimeZone)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := func() {
		if err := a.runOnce(ctx); err != nil {
			a.logger.Error("scan aborted", "err", err)
		}
	}

	sched := schedule.New(loc, a.logger)
	if err := sched.Add(spec, job); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, bannerStyle.Render(fmt.Sprintf("slotwatch: watching %s on %q", a.cfg.Site.EntryURL, spec)))
	if c.Immediately {
		job()
	}

	sched.Run(ctx)
	a.logger.Info("stopped watching")
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("slotwatch"),
		kong.Description("Watch the appointment booking site for newly opened slots."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
