package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfa-news-fetcher/internal/config"
	"mfa-news-fetcher/internal/logger"
)

func testSelectors() config.SelectorSet {
	return config.SelectorSet{
		Container: "div.news-list",
		Item:      "div.news-item",
		Date:      ".news-item__date",
		Time:      ".news-item__time",
		Link:      "a.news-item__link",
		Tags:      ".news-item__tags",
	}
}

func testExtractor(t *testing.T) *ListingExtractor {
	t.Helper()

	log, err := logger.New("error", "")
	require.NoError(t, err)

	return NewListingExtractor(testSelectors(), log)
}

const listingFixture = `
<html><body>
<div class="news-list">
  <div class="news-item">
    <span class="news-item__date"> 21 August 2026 </span>
    <span class="news-item__time">14:05</span>
    <a class="news-item__link" href="/en/news/statement-1">Statement on bilateral talks</a>
    <span class="news-item__tags">Diplomacy, Europe, Bilateral</span>
  </div>
  <div class="news-item">
    <span class="news-item__date">20 August 2026</span>
    <a class="news-item__link" href="/en/news/broken">Item missing its time element</a>
    <span class="news-item__tags">Diplomacy</span>
  </div>
  <div class="news-item">
    <span class="news-item__date">19 August 2026</span>
    <span class="news-item__time">09:30</span>
    <a class="news-item__link" href="https://other.example.org/abs">Absolute link, no tags</a>
  </div>
</div>
<div class="news-item">
  <span class="news-item__date">stray item outside the container</span>
  <span class="news-item__time">00:00</span>
  <a class="news-item__link" href="/ignored">Ignored</a>
</div>
</body></html>`

// TestExtract_SkipsMalformedItems verifies the required-field invariant:
// two well-formed items plus one missing its time element yield exactly two
// records, in document order
func TestExtract_SkipsMalformedItems(t *testing.T) {
	extractor := testExtractor(t)

	records := extractor.Extract(listingFixture, "https://mfa.example.gov/en/news")

	require.Len(t, records, 2)
	assert.Equal(t, "Statement on bilateral talks", records[0].Title)
	assert.Equal(t, "Absolute link, no tags", records[1].Title)
}

// TestExtract_FieldValues verifies trimming, link resolution and tag parsing
func TestExtract_FieldValues(t *testing.T) {
	extractor := testExtractor(t)

	records := extractor.Extract(listingFixture, "https://mfa.example.gov/en/news")
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "21 August 2026", first.Date, "date text should be trimmed")
	assert.Equal(t, "14:05", first.Time)
	assert.Equal(t, "https://mfa.example.gov/en/news/statement-1", first.Link, "relative href should resolve against the page URL")
	assert.Equal(t, []string{"Diplomacy", "Europe", "Bilateral"}, first.Tags)

	second := records[1]
	assert.Equal(t, "https://other.example.org/abs", second.Link, "absolute href should pass through")
	require.NotNil(t, second.Tags)
	assert.Empty(t, second.Tags, "missing tags element should yield an empty sequence")
}

// TestExtract_EmptyTagsElement verifies an empty tags element parses to []
func TestExtract_EmptyTagsElement(t *testing.T) {
	extractor := testExtractor(t)

	html := `<div class="news-list"><div class="news-item">
		<span class="news-item__date">d</span>
		<span class="news-item__time">t</span>
		<a class="news-item__link" href="/x">x</a>
		<span class="news-item__tags"></span>
	</div></div>`

	records := extractor.Extract(html, "https://mfa.example.gov/en/news")

	require.Len(t, records, 1)
	require.NotNil(t, records[0].Tags)
	assert.Empty(t, records[0].Tags)
}

// TestExtract_SingleTag verifies a tags element without the separator
func TestExtract_SingleTag(t *testing.T) {
	extractor := testExtractor(t)

	html := `<div class="news-list"><div class="news-item">
		<span class="news-item__date">d</span>
		<span class="news-item__time">t</span>
		<a class="news-item__link" href="/x">x</a>
		<span class="news-item__tags">Consular</span>
	</div></div>`

	records := extractor.Extract(html, "https://mfa.example.gov/en/news")

	require.Len(t, records, 1)
	assert.Equal(t, []string{"Consular"}, records[0].Tags)
}

// TestExtract_SkipsLinkWithoutHref verifies a link element carrying no
// usable href is treated like a missing link element
func TestExtract_SkipsLinkWithoutHref(t *testing.T) {
	extractor := testExtractor(t)

	html := `<div class="news-list">
	<div class="news-item">
		<span class="news-item__date">d</span>
		<span class="news-item__time">t</span>
		<a class="news-item__link">no href attribute</a>
	</div>
	<div class="news-item">
		<span class="news-item__date">d</span>
		<span class="news-item__time">t</span>
		<a class="news-item__link" href="  ">blank href</a>
	</div>
	<div class="news-item">
		<span class="news-item__date">d</span>
		<span class="news-item__time">t</span>
		<a class="news-item__link" href="/kept">kept</a>
	</div>
	</div>`

	records := extractor.Extract(html, "https://mfa.example.gov/en/news")

	require.Len(t, records, 1)
	assert.Equal(t, "https://mfa.example.gov/kept", records[0].Link)
}

// TestExtract_NoContainer verifies a page without the listing container
// yields zero records rather than an error
func TestExtract_NoContainer(t *testing.T) {
	extractor := testExtractor(t)

	records := extractor.Extract("<html><body><p>Just a moment...</p></body></html>", "https://mfa.example.gov/en/news")

	require.NotNil(t, records)
	assert.Empty(t, records)
}

// TestExtract_EntityInTitle verifies entity-escaped markup survives as text
func TestExtract_EntityInTitle(t *testing.T) {
	extractor := testExtractor(t)

	html := `<div class="news-list"><div class="news-item">
		<span class="news-item__date">d</span>
		<span class="news-item__time">t</span>
		<a class="news-item__link" href="/x">Trade &amp; security dialogue</a>
	</div></div>`

	records := extractor.Extract(html, "https://mfa.example.gov/en/news")

	require.Len(t, records, 1)
	assert.Equal(t, "Trade & security dialogue", records[0].Title)
}
