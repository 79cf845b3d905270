// Package scraper provides browser configuration options for Chrome automation.
package scraper

import (
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"mfa-news-fetcher/internal/config"
)

// Browser window dimensions
const (
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 900
)

// BuildAllocatorOptions creates Chrome launch options for a constrained
// execution environment: headless, sandbox disabled, spoofed desktop
// identity string.
func BuildAllocatorOptions(profile config.SiteProfile) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(DefaultWindowWidth, DefaultWindowHeight),
		chromedp.UserAgent(profile.UserAgent),
	)
}

// ExtraHeaders returns the spoofed request headers injected on every page
// request to reduce fingerprinting.
func ExtraHeaders(profile config.SiteProfile) network.Headers {
	return network.Headers{
		"Accept":          profile.AcceptHeader,
		"Accept-Language": profile.AcceptLanguage,
	}
}

// ApplyExtraHeaders enables the CDP network domain and installs the spoofed
// headers on the session.
func ApplyExtraHeaders(profile config.SiteProfile) chromedp.Tasks {
	return chromedp.Tasks{
		network.Enable(),
		network.SetExtraHTTPHeaders(ExtraHeaders(profile)),
	}
}
