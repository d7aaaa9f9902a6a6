package driven

import "context"

// TextExtractor converts raw document bytes into plain text.
//
// Implementations must prefix each page's text with a literal
// "[Page N]\n" marker (N is the 1-based page number) so the chunker
// can recover page provenance. Extraction failures wrap
// domain.ErrExtraction.
type TextExtractor interface {
	// Extract returns the page-tagged text of the document.
	Extract(ctx context.Context, data []byte) (string, error)
}
