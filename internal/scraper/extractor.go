package scraper

import (
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"mfa-news-fetcher/internal/config"
	"mfa-news-fetcher/internal/logger"
	"mfa-news-fetcher/internal/models"
)

// TagSeparator is the literal separator between tags in the tags element.
const TagSeparator = ", "

// ListingExtractor pulls news records out of rendered listing HTML. The
// selector table is the only site-specific part; markup changes on the
// target site stay confined to configuration.
type ListingExtractor struct {
	selectors config.SelectorSet
	sanitizer *bluemonday.Policy
	log       *logger.Logger
}

func NewListingExtractor(selectors config.SelectorSet, log *logger.Logger) *ListingExtractor {
	return &ListingExtractor{
		selectors: selectors,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
}

// Extract returns the records found under the listing container, in
// document order. Items missing a date, time or link sub-element, or whose
// link carries no href, are skipped silently; no partial records are
// emitted. A page without the container yields an empty result, never an
// error.
func (e *ListingExtractor) Extract(pageHTML, pageURL string) []models.NewsRecord {
	records := make([]models.NewsRecord, 0)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		e.log.Error("failed to parse rendered page", "error", err)
		return records
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	doc.Find(e.selectors.Container).First().Find(e.selectors.Item).Each(func(i int, item *goquery.Selection) {
		record, ok := e.extractItem(item, base)
		if !ok {
			e.log.Debug("skipping listing item missing required fields", "index", i)
			return
		}
		records = append(records, record)
	})

	return records
}

func (e *ListingExtractor) extractItem(item *goquery.Selection, base *url.URL) (models.NewsRecord, bool) {
	dateEl := item.Find(e.selectors.Date).First()
	timeEl := item.Find(e.selectors.Time).First()
	linkEl := item.Find(e.selectors.Link).First()

	if dateEl.Length() == 0 || timeEl.Length() == 0 || linkEl.Length() == 0 {
		return models.NewsRecord{}, false
	}

	// A link element without an href cannot yield the absolute URL the
	// record promises; treat it like a missing link element.
	href := strings.TrimSpace(linkEl.AttrOr("href", ""))
	if href == "" {
		return models.NewsRecord{}, false
	}

	return models.NewsRecord{
		Date:  e.cleanText(dateEl.Text()),
		Time:  e.cleanText(timeEl.Text()),
		Title: e.cleanText(linkEl.Text()),
		Link:  resolveLink(base, href),
		Tags:  e.extractTags(item),
	}, true
}

// extractTags splits the tags element text on the literal separator. A
// missing or empty tags element yields an empty, non-nil slice.
func (e *ListingExtractor) extractTags(item *goquery.Selection) []string {
	tags := make([]string, 0)

	tagsEl := item.Find(e.selectors.Tags).First()
	if tagsEl.Length() == 0 {
		return tags
	}

	raw := e.cleanText(tagsEl.Text())
	if raw == "" {
		return tags
	}

	return append(tags, strings.Split(raw, TagSeparator)...)
}

// cleanText sanitizes extracted text and normalizes its whitespace. The
// sanitizer entity-escapes its output, so unescape to get plain text back.
func (e *ListingExtractor) cleanText(text string) string {
	cleaned := html.UnescapeString(e.sanitizer.Sanitize(text))
	return strings.Join(strings.Fields(cleaned), " ")
}

// resolveLink resolves href against the page URL so persisted links are
// always absolute.
func resolveLink(base *url.URL, href string) string {
	if base == nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return base.ResolveReference(ref).String()
}
