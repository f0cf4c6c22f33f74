package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("marketsnap.lib.browser")

// scrolls the window by the height of the viewport
const scrollScript = `window.scrollBy(0, document.documentElement.clientHeight);`

// Chrome drives a (headless by default) chrome instance through the devtools protocol.
type Chrome struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	timeout       time.Duration
	navigated     bool
}

func NewChrome(ctx context.Context, opts Options) (*Chrome, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", opts.headless()),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// starts the browser so that a missing executable is reported here instead of on navigation
	err := chromedp.Run(browserCtx)
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}

	return &Chrome{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		timeout:       timeout,
	}, nil
}

func (c *Chrome) run(ctx context.Context, name string, actions ...chromedp.Action) error {
	_, span := tracer.Start(ctx, name)
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(c.browserCtx, c.timeout)
	defer cancel()

	err := chromedp.Run(runCtx, actions...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	err := c.run(
		ctx, "Chrome.Navigate",
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	c.navigated = true
	return nil
}

func (c *Chrome) CurrentMarkup(ctx context.Context) (string, error) {
	if !c.navigated {
		return "", ErrNotNavigated
	}
	var markup string
	err := c.run(ctx, "Chrome.CurrentMarkup", chromedp.OuterHTML("html", &markup))
	if err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}
	return markup, nil
}

func (c *Chrome) Scroll(ctx context.Context) error {
	if !c.navigated {
		return ErrNotNavigated
	}
	return c.run(ctx, "Chrome.Scroll", chromedp.Evaluate(scrollScript, nil))
}

func (c *Chrome) Close() error {
	c.browserCancel()
	c.allocCancel()
	return nil
}
