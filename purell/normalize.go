// Package purell canonicalizes URLs for visited-set comparisons so that
// trivially different spellings of the same page (fragment, default port,
// query order, duplicate slashes) deduplicate to one frontier entry.
package purell

import "github.com/PuerkitoBio/purell"

// Canonicalize normalizes a URL for deduplication. The fragment is always
// stripped: URLs differing only by fragment identify the same page.
func Canonicalize(rawURL string) (string, error) {
	flags := purell.FlagLowercaseScheme |
		purell.FlagLowercaseHost |
		purell.FlagRemoveDefaultPort |
		purell.FlagRemoveFragment |
		purell.FlagSortQuery |
		purell.FlagRemoveDuplicateSlashes |
		purell.FlagRemoveDotSegments

	return purell.NormalizeURLString(rawURL, flags)
}
