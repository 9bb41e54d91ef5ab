package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// blockedURLs keeps heavy media off the wire; only the DOM is read.
var blockedURLs = []string{"*.png", "*.jpg", "*.jpeg", "*.webp", "*.gif", "*.svg", "*.woff", "*.woff2", "*.mp4"}

// Browser wraps a headless Chrome driven over the DevTools protocol.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewBrowser starts a headless browser. If no path is given, chromedp looks
// for Chrome/Chromium on the usual locations and PATH.
func NewBrowser(parent context.Context, execPath ...string) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("disable-logging", true),
		chromedp.WindowSize(1920, 1080),
	)
	if len(execPath) > 0 && execPath[0] != "" {
		opts = append(opts, chromedp.ExecPath(execPath[0]))
	}

	b := &Browser{}
	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(parent, opts...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	}))

	// Launch now so later per-call timeouts only bound page work, not the browser's lifetime
	if err := chromedp.Run(b.ctx); err != nil {
		b.Close()
		return nil, fmt.Errorf("scrape: start browser: %w", err)
	}
	log.Debug().Msg("browser started")
	return b, nil
}

// PageSource navigates to url, waits until waitSelector is present and
// returns the rendered document.
func (b *Browser) PageSource(ctx context.Context, url, waitSelector string, timeout time.Duration) (string, error) {
	if b.ctx == nil || b.ctx.Err() != nil {
		return "", fmt.Errorf("scrape: browser is closed")
	}

	runCtx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	// stop early if the caller gives up
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var src string
	if err := chromedp.Run(runCtx, pageTasks(url, waitSelector, &src)); err != nil {
		return "", fmt.Errorf("scrape: load %s: %w", url, err)
	}
	return src, nil
}

// pageTasks blocks media, loads url and reads the rendered document into src
// once waitSelector is present.
func pageTasks(url, waitSelector string, src *string) chromedp.Tasks {
	return chromedp.Tasks{
		network.Enable(),
		network.SetBlockedURLS(blockedURLs),
		chromedp.Navigate(url),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", src, chromedp.ByQuery),
	}
}

// Close shuts down the browser process.
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}
