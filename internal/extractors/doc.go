// Package extractors provides implementations of the Extractor interface
// for the corpus source formats. Each extractor knows how to pull title
// and body text out of a specific file kind.
//
// Extractors are registered with the ExtractorRegistry at startup.
package extractors
