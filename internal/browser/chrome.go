// Package browser implements the scan page capability on top of a headless
// Chrome driven through chromedp.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/go-scripts/slotwatch/internal/options"
	"github.com/go-scripts/slotwatch/internal/types"
)

var (
	// ErrElementNotFound is returned when a control or option is missing from the page.
	ErrElementNotFound = errors.New("element not found")

	// ErrResponseFailed is returned when an awaited backend request fails.
	ErrResponseFailed = errors.New("awaited response failed")
)

// Options configures the Chrome instance
type Options struct {
	Headful       bool
	ExecPath      string
	UserAgent     string
	ActionTimeout time.Duration
}

// Chrome is one browser tab. It is not safe for concurrent use.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	logger      *log.Logger
}

// NewChrome starts a browser and opens a tab with network events enabled
func NewChrome(parent context.Context, opts Options, logger *log.Logger) (*Chrome, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = 30 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if opts.Headful {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Debugf),
		chromedp.WithErrorf(logger.Errorf),
	)

	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &Chrome{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		timeout:     opts.ActionTimeout,
		logger:      logger,
	}, nil
}

// Close shuts the tab and the browser process down
func (c *Chrome) Close() {
	c.cancel()
	c.allocCancel()
}

// actionContext bounds one page action by the action timeout and by ctx
func (c *Chrome) actionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	actx, cancel := context.WithTimeout(c.ctx, c.timeout)
	stop := context.AfterFunc(ctx, cancel)
	return actx, func() {
		stop()
		cancel()
	}
}

func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	actx, cancel := c.actionContext(ctx)
	defer cancel()
	return chromedp.Run(actx, actions...)
}

// follow runs actions that trigger a navigation and waits for the new document
func (c *Chrome) follow(ctx context.Context, what string, actions ...chromedp.Action) error {
	actx, cancel := c.actionContext(ctx)
	defer cancel()

	resp, err := chromedp.RunResponse(actx, actions...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if resp != nil && resp.Status >= 400 {
		return fmt.Errorf("%s: server answered %d", what, resp.Status)
	}
	return chromedp.Run(actx, chromedp.WaitReady("body", chromedp.ByQuery))
}

func (c *Chrome) Goto(ctx context.Context, url string) error {
	return c.follow(ctx, "navigate to "+url, chromedp.Navigate(url))
}

func (c *Chrome) ClickTitle(ctx context.Context, title string) error {
	return c.follow(ctx, "click "+title,
		chromedp.Click(fmt.Sprintf(`[title=%s]`, cssString(title)), chromedp.ByQuery, chromedp.NodeVisible),
	)
}

func (c *Chrome) FollowLink(ctx context.Context, name string) error {
	return c.follow(ctx, "follow link "+name,
		chromedp.Click(linkXPath(name), chromedp.BySearch, chromedp.NodeVisible),
	)
}

func (c *Chrome) SelectLabel(ctx context.Context, selector, label string) error {
	return c.selectOption(ctx, selector, "label", label)
}

func (c *Chrome) SelectValue(ctx context.Context, selector, value string) error {
	return c.selectOption(ctx, selector, "value", value)
}

func (c *Chrome) selectOption(ctx context.Context, selector, by, want string) error {
	var ok bool
	err := c.run(ctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Evaluate(selectScript(selector, by, want), &ok),
	)
	if err != nil {
		return fmt.Errorf("select %s %q in %s: %w", by, want, selector, err)
	}
	if !ok {
		return fmt.Errorf("option with %s %q in %s: %w", by, want, selector, ErrElementNotFound)
	}
	c.logger.Debug("selected option", "selector", selector, by, want)
	return nil
}

func (c *Chrome) AwaitResponse(ctx context.Context, fragment string, trigger func(context.Context) error) error {
	actx, cancel := c.actionContext(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		requestID network.RequestID
		done      = make(chan error, 1)
	)
	signal := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	chromedp.ListenTarget(actx, func(ev interface{}) {
		mu.Lock()
		defer mu.Unlock()

		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			if requestID == "" && strings.Contains(ev.Response.URL, fragment) {
				requestID = ev.RequestID
			}
		case *network.EventLoadingFinished:
			if requestID != "" && ev.RequestID == requestID {
				signal(nil)
			}
		case *network.EventLoadingFailed:
			if requestID != "" && ev.RequestID == requestID {
				signal(fmt.Errorf("%w: %s: %s", ErrResponseFailed, fragment, ev.ErrorText))
			}
		}
	})

	if err := trigger(actx); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-actx.Done():
		return fmt.Errorf("waiting for response %q: %w", fragment, actx.Err())
	}
}

func (c *Chrome) WaitEnabled(ctx context.Context, selector string) error {
	if err := c.run(ctx, chromedp.WaitEnabled(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %s enabled: %w", selector, err)
	}
	return nil
}

func (c *Chrome) Options(ctx context.Context, selector string) ([]types.Option, error) {
	var markup string
	if err := c.run(ctx, chromedp.OuterHTML(selector, &markup, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("read %s: %w", selector, err)
	}
	return options.Parse(markup)
}

func (c *Chrome) HeadingVisible(ctx context.Context, text string) (bool, error) {
	var visible bool
	if err := c.run(ctx, chromedp.Evaluate(headingScript(text), &visible)); err != nil {
		return false, fmt.Errorf("look up heading %q: %w", text, err)
	}
	return visible, nil
}
