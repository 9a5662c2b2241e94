// Package pdf renders HTML documents to PDF through headless Chrome.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var (
	ErrEmptyHTML    = errors.New("pdf: html content is empty")
	ErrRenderFailed = errors.New("pdf: render failed")
	ErrTimeout      = errors.New("pdf: render timed out")
)

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type Options struct {
	// RemoteURL points at a running Chrome DevTools endpoint; empty launches a local browser.
	RemoteURL string
	Timeout   time.Duration
	NoSandbox bool
}

// A4 in inches, 10mm margins.
const (
	paperWidth  = 8.27
	paperHeight = 11.69
	margin      = 0.39
)

type ChromeRenderer struct {
	opts        Options
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromeRenderer(opts Options) *ChromeRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	r := &ChromeRenderer{opts: opts}
	if opts.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
		return r
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return r
}

func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyHTML
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			slog.Debug(fmt.Sprintf(format, args...), "component", "pdf")
		}),
	)
	defer browserCancel()
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	start := time.Now()
	var data []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(margin).
				WithMarginRight(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				Do(ctx)
			if err != nil {
				return err
			}
			data = buf
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v: %v", ErrTimeout, r.opts.Timeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: output is not a PDF document", ErrRenderFailed)
	}

	slog.Debug("pdf rendered", "bytes", len(data), "duration", time.Since(start))
	return data, nil
}

// Close shuts down the browser allocator.
func (r *ChromeRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}
