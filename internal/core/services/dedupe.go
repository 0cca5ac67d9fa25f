package services

import (
	"fmt"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/logger"
)

// Deduplicator rejects records whose normalized body was already seen.
// First encountered wins; walk order is deterministic, so tie-breaks are
// reproducible across runs.
type Deduplicator struct {
	seen *domain.FingerprintSet
}

// NewDeduplicator creates a deduplicator with a fresh fingerprint set.
// Each run gets its own; fingerprints never leak across runs.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: domain.NewFingerprintSet()}
}

// Admit fingerprints the record and claims the fingerprint.
// Returns ErrDuplicateContent naming the earlier holder when the body
// was already seen.
func (d *Deduplicator) Admit(rec *domain.Record) error {
	if rec.Fingerprint == "" {
		rec.Fingerprint = domain.Fingerprint(rec.Text)
	}
	holder, fresh := d.seen.Add(rec.Fingerprint, rec.Identifier)
	if !fresh {
		logger.Debug("Duplicate content: %s matches %s", rec.Identifier, holder)
		return fmt.Errorf("%s duplicates %s: %w", rec.Identifier, holder, domain.ErrDuplicateContent)
	}
	return nil
}

// Seen returns the number of distinct fingerprints admitted.
func (d *Deduplicator) Seen() int {
	return d.seen.Len()
}
