package browser

import (
	"context"
	"fmt"
	"time"

	"marketsnap/lib/restyutil"
	"marketsnap/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const staticTracerName = "marketsnap.lib.browser.static"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Static fetches the page over plain HTTP without executing any scripts, it
// only sees the rows that are rendered server side. Scroll is a no-op.
type Static struct {
	http   *resty.Client
	markup string
	loaded bool
}

func NewStatic(opts Options) *Static {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)

	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	// both instrumentations manage their own spans, only one may be installed
	if opts.Dump != nil {
		restyutil.Record(client, otel.Tracer(staticTracerName), opts.Dump)
	} else {
		telemetry.InstrumentResty(client, staticTracerName)
	}

	return &Static{http: client}
}

func (s *Static) Navigate(ctx context.Context, url string) error {
	res, err := s.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.IsError() {
		return fmt.Errorf("fetch %s: unexpected status %d", url, res.StatusCode())
	}
	s.markup = res.String()
	s.loaded = true
	return nil
}

func (s *Static) CurrentMarkup(ctx context.Context) (string, error) {
	if !s.loaded {
		return "", ErrNotNavigated
	}
	return s.markup, nil
}

func (s *Static) Scroll(ctx context.Context) error {
	if !s.loaded {
		return ErrNotNavigated
	}
	return nil
}

func (s *Static) Close() error {
	return nil
}
