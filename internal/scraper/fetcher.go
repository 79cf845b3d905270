// Package scraper owns the headless browser session: it navigates to one
// listing URL, rides out anti-bot interstitials with bounded best-effort
// waits, and extracts news records from the rendered DOM.
package scraper

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"mfa-news-fetcher/internal/config"
	"mfa-news-fetcher/internal/logger"
	"mfa-news-fetcher/internal/models"
)

// PageFetcher holds one exclusively-owned browser session per run. The
// lifecycle is strictly sequential: Initialize, FetchListingPage, Shutdown.
type PageFetcher struct {
	profile   config.SiteProfile
	log       *logger.Logger
	extractor *ListingExtractor

	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	initialized   bool
	closed        bool
}

func NewPageFetcher(profile config.SiteProfile, log *logger.Logger) *PageFetcher {
	return &PageFetcher{
		profile:   profile,
		log:       log,
		extractor: NewListingExtractor(profile.Selectors, log),
	}
}

// Initialize launches the browser with sandbox-disabling flags, the spoofed
// identity string and spoofed Accept headers. The launch is eager so a
// missing or broken Chrome surfaces here, not mid-fetch.
func (f *PageFetcher) Initialize(ctx context.Context) error {
	// Closed is terminal: a released fetcher cannot be revived, otherwise
	// the fresh browser would have no Shutdown left to release it.
	if f.closed {
		return &models.NotInitializedError{Operation: "Initialize"}
	}
	if f.initialized {
		return nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, BuildAllocatorOptions(f.profile)...)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			f.log.Debug(fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			f.log.Warn(fmt.Sprintf(format, args...))
		}),
	)

	if err := chromedp.Run(browserCtx, ApplyExtraHeaders(f.profile)); err != nil {
		browserCancel()
		allocCancel()
		return &models.InitializationError{Err: err}
	}

	f.browserCtx = browserCtx
	f.browserCancel = browserCancel
	f.allocCancel = allocCancel
	f.initialized = true

	f.log.Info("browser session acquired", "user_agent", f.profile.UserAgent)

	return nil
}

// FetchListingPage navigates to the given 1-based listing page and returns
// the extracted records in DOM order. DOM-ready is treated as sufficient to
// proceed; waiting for a full load is too strict under anti-bot delays.
// Zero records is a valid, logged outcome, not an error.
func (f *PageFetcher) FetchListingPage(ctx context.Context, pageNumber int) ([]models.NewsRecord, error) {
	if pageNumber < 1 {
		return nil, &models.FetchError{
			URL: f.profile.ListingURL,
			Err: fmt.Errorf("page number must be >= 1, got %d", pageNumber),
		}
	}

	if !f.initialized || f.closed {
		return nil, &models.NotInitializedError{Operation: "FetchListingPage"}
	}

	target := f.profile.PageURL(pageNumber)
	f.log.Info("navigating to listing page", "url", target, "page", pageNumber)

	navCtx, cancel := context.WithTimeout(f.browserCtx, f.profile.Timeouts.Navigation())
	defer cancel()

	// Raw CDP navigate instead of chromedp.Navigate: the latter waits for
	// the full load event, which is too strict under anti-bot delays.
	// DOM-ready on body is sufficient to proceed.
	err := chromedp.Run(navCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, _, errorText, err := page.Navigate(target).Do(ctx)
			if err != nil {
				return err
			}
			if errorText != "" {
				return fmt.Errorf("navigation error: %s", errorText)
			}
			return nil
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return nil, &models.FetchError{URL: target, Err: err}
	}

	f.waitForContainer()
	f.waitOutInterstitial()

	var currentURL, html string
	err = chromedp.Run(f.browserCtx,
		chromedp.Location(&currentURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &models.FetchError{URL: target, Err: err}
	}

	records := f.extractor.Extract(html, currentURL)
	if len(records) == 0 {
		f.log.Warn("no records extracted from listing page", "url", target)
	} else {
		f.log.Info("extracted records", "count", len(records), "url", target)
	}

	return records, nil
}

// Shutdown releases the browser session. Idempotent, and never propagates a
// close failure: cleanup runs on the error path too and must not mask the
// original error.
func (f *PageFetcher) Shutdown() {
	if f.closed {
		return
	}
	f.closed = true

	if !f.initialized {
		return
	}

	if err := chromedp.Cancel(f.browserCtx); err != nil {
		f.log.Warn("browser close failed", "error", err)
	}
	f.browserCancel()
	f.allocCancel()

	f.log.Info("browser session released")
}

// waitForContainer gives the listing container a short bounded wait to
// appear. A timeout is absorbed: extraction simply yields zero records if
// the container never rendered.
func (f *PageFetcher) waitForContainer() {
	waitCtx, cancel := context.WithTimeout(f.browserCtx, f.profile.Timeouts.SelectorWait())
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitVisible(f.profile.Selectors.Container, chromedp.ByQuery))
	if err != nil {
		f.log.Warn("listing container did not appear, proceeding anyway",
			"selector", f.profile.Selectors.Container, "error", err)
	}
}

// waitOutInterstitial checks the rendered page text for an anti-bot
// interstitial and, if present, waits (bounded, longer) for the follow-up
// navigation. A timeout is absorbed here as well.
func (f *PageFetcher) waitOutInterstitial() {
	var bodyText string
	if err := chromedp.Run(f.browserCtx, chromedp.Text("body", &bodyText, chromedp.ByQuery)); err != nil {
		f.log.Warn("could not inspect page text for interstitial", "error", err)
		return
	}

	if !LooksLikeInterstitial(bodyText, f.profile.AntiBotMarkers) {
		return
	}

	f.log.Info("anti-bot interstitial detected, waiting for navigation")

	waitCtx, cancel := context.WithTimeout(f.browserCtx, f.profile.Timeouts.AntiBotWait())
	defer cancel()

	if err := f.waitForNavigation(waitCtx); err != nil {
		f.log.Warn("interstitial did not resolve in time, proceeding anyway", "error", err)
	}
}

// waitForNavigation blocks until the next top-level frame navigation or the
// context deadline, whichever comes first.
func (f *PageFetcher) waitForNavigation(ctx context.Context) error {
	navigated := make(chan struct{}, 1)

	listenCtx, cancel := context.WithCancel(f.browserCtx)
	defer cancel()

	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventFrameNavigated); ok && e.Frame.ParentID == "" {
			select {
			case navigated <- struct{}{}:
			default:
			}
		}
	})

	select {
	case <-navigated:
		// Let the post-interstitial document reach DOM-ready.
		readyCtx, readyCancel := context.WithTimeout(ctx, f.profile.Timeouts.SelectorWait())
		defer readyCancel()
		return chromedp.Run(readyCtx, chromedp.WaitReady("body", chromedp.ByQuery))
	case <-ctx.Done():
		return ctx.Err()
	}
}
