package scraper

import "strings"

// LooksLikeInterstitial reports whether rendered page text matches a known
// anti-bot interstitial marker. The heuristic is a case-insensitive
// substring match, kept behind this single predicate so it can be swapped
// or disabled without touching the fetch flow.
func LooksLikeInterstitial(pageText string, markers []string) bool {
	if pageText == "" {
		return false
	}

	text := strings.ToLower(pageText)
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(marker)) {
			return true
		}
	}

	return false
}
