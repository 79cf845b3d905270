// Package config provides the site profile driving the fetcher: target URL,
// DOM selector table, anti-bot markers and timeouts. Defaults are compiled
// in and can be overlaid from a YAML file, so markup changes on the target
// site touch configuration only.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile validation errors.
var (
	ErrMissingListingURL = errors.New("listing_url is required")
	ErrInvalidListingURL = errors.New("listing_url must be a valid absolute URL")
	ErrMissingPageParam  = errors.New("page_param is required")
	ErrMissingContainer  = errors.New("selectors.container is required")
	ErrMissingItem       = errors.New("selectors.item is required")
	ErrInvalidTimeout    = errors.New("timeouts must be positive")
)

// SelectorSet maps record fields to DOM selectors. The container wraps all
// listing entries; the remaining selectors are evaluated per item.
type SelectorSet struct {
	Container string `yaml:"container"`
	Item      string `yaml:"item"`
	Date      string `yaml:"date"`
	Time      string `yaml:"time"`
	Link      string `yaml:"link"`
	Tags      string `yaml:"tags"`
}

// Timeouts holds the bounded waits of a single fetch, in milliseconds.
type Timeouts struct {
	NavigationMs   int `yaml:"navigation_ms"`
	SelectorWaitMs int `yaml:"selector_wait_ms"`
	AntiBotWaitMs  int `yaml:"anti_bot_wait_ms"`
}

func (t Timeouts) Navigation() time.Duration {
	return time.Duration(t.NavigationMs) * time.Millisecond
}

func (t Timeouts) SelectorWait() time.Duration {
	return time.Duration(t.SelectorWaitMs) * time.Millisecond
}

func (t Timeouts) AntiBotWait() time.Duration {
	return time.Duration(t.AntiBotWaitMs) * time.Millisecond
}

// SiteProfile describes one target listing page.
type SiteProfile struct {
	ListingURL     string      `yaml:"listing_url"`
	PageParam      string      `yaml:"page_param"`
	UserAgent      string      `yaml:"user_agent"`
	AcceptHeader   string      `yaml:"accept_header"`
	AcceptLanguage string      `yaml:"accept_language"`
	AntiBotMarkers []string    `yaml:"anti_bot_markers"`
	Selectors      SelectorSet `yaml:"selectors"`
	Timeouts       Timeouts    `yaml:"timeouts"`
}

// DefaultSiteProfile returns the built-in profile for the ministry news
// listing. SCRAPE_USER_AGENT overrides the identity string wholesale;
// CHROME_MAJOR only bumps the spoofed Chrome version.
func DefaultSiteProfile() SiteProfile {
	chromeMajor := 133
	if env := os.Getenv("CHROME_MAJOR"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil {
			chromeMajor = parsed
		}
	}

	userAgent := os.Getenv("SCRAPE_USER_AGENT")
	if userAgent == "" {
		userAgent = fmt.Sprintf("Mozilla/5.0 (Windows NT 10; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.6943.126 Safari/537.36", chromeMajor)
	}

	return SiteProfile{
		ListingURL:     "https://mfa.gov.ua/en/news",
		PageParam:      "page",
		UserAgent:      userAgent,
		AcceptHeader:   "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.9",
		AntiBotMarkers: []string{
			"just a moment",
			"checking your browser",
			"attention required",
			"verifying you are human",
		},
		Selectors: SelectorSet{
			Container: "div.news-list",
			Item:      "div.news-item",
			Date:      ".news-item__date",
			Time:      ".news-item__time",
			Link:      "a.news-item__link",
			Tags:      ".news-item__tags",
		},
		Timeouts: Timeouts{
			NavigationMs:   30000,
			SelectorWaitMs: 5000,
			AntiBotWaitMs:  15000,
		},
	}
}

// LoadSiteProfile returns the default profile, overlaid from the YAML file
// at path when one is given, and validated.
func LoadSiteProfile(path string) (SiteProfile, error) {
	profile := DefaultSiteProfile()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return SiteProfile{}, fmt.Errorf("failed to read site profile %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return SiteProfile{}, fmt.Errorf("failed to parse site profile %s: %w", path, err)
		}
	}

	if err := profile.Validate(); err != nil {
		return SiteProfile{}, err
	}

	return profile, nil
}

// Validate checks the fields the fetch flow cannot run without.
func (p SiteProfile) Validate() error {
	if p.ListingURL == "" {
		return ErrMissingListingURL
	}
	if u, err := url.Parse(p.ListingURL); err != nil || !u.IsAbs() {
		return ErrInvalidListingURL
	}
	if p.PageParam == "" {
		return ErrMissingPageParam
	}
	if p.Selectors.Container == "" {
		return ErrMissingContainer
	}
	if p.Selectors.Item == "" {
		return ErrMissingItem
	}
	if p.Timeouts.NavigationMs <= 0 || p.Timeouts.SelectorWaitMs <= 0 || p.Timeouts.AntiBotWaitMs <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// PageURL builds the target URL for a 1-based page number: the bare listing
// URL for page 1, the listing URL with the page query parameter otherwise.
func (p SiteProfile) PageURL(page int) string {
	if page <= 1 {
		return p.ListingURL
	}

	u, err := url.Parse(p.ListingURL)
	if err != nil {
		return p.ListingURL
	}

	q := u.Query()
	q.Set(p.PageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String()
}
