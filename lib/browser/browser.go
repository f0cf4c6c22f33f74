// Package browser holds the drivers that render the listing page.
package browser

import (
	"context"
	"errors"

	"marketsnap/lib/restyutil"
)

// Driver is the rendering collaborator of the scraper.
//
// note: fault injection point
type Driver interface {
	// Navigate loads the url and blocks until the document is ready.
	Navigate(ctx context.Context, url string) error
	// CurrentMarkup returns the markup of the document as it is currently rendered.
	CurrentMarkup(ctx context.Context) (string, error)
	// Scroll moves the viewport down by one page height, it does not wait for anything to render.
	Scroll(ctx context.Context) error
	Close() error
}

var ErrNotNavigated = errors.New("driver has not navigated to a page yet")

type Kind string

const (
	KindChrome Kind = "chrome"
	KindStatic Kind = "http"
)

type Options struct {
	Kind           Kind   `json:"kind"`
	Headless       *bool  `json:"headless"`
	ExecPath       string `json:"exec_path"`
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// Dump receives every HTTP exchange of the static driver, it may be nil.
	Dump restyutil.DumpOutput `json:"-"`
}

func (o Options) headless() bool {
	if o.Headless == nil {
		return true
	}
	return *o.Headless
}

// New creates the driver described by opts.
func New(ctx context.Context, opts Options) (Driver, error) {
	switch opts.Kind {
	case KindChrome, "":
		return NewChrome(ctx, opts)
	case KindStatic:
		return NewStatic(opts), nil
	}
	return nil, errors.New("unknown browser kind: " + string(opts.Kind))
}
