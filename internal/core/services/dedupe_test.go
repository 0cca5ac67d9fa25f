package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

func TestDeduplicator_Admit(t *testing.T) {
	dedupe := NewDeduplicator()

	first := &domain.Record{Identifier: "he/alpha.html", Text: "shared body"}
	second := &domain.Record{Identifier: "he/beta.html", Text: "different body"}

	require.NoError(t, dedupe.Admit(first))
	require.NoError(t, dedupe.Admit(second))

	assert.Equal(t, 2, dedupe.Seen())
	assert.Equal(t, domain.Fingerprint("shared body"), first.Fingerprint)
	assert.Equal(t, domain.Fingerprint("different body"), second.Fingerprint)
}

func TestDeduplicator_Admit_Duplicate(t *testing.T) {
	dedupe := NewDeduplicator()

	first := &domain.Record{Identifier: "he/alpha.html", Text: "shared body"}
	second := &domain.Record{Identifier: "he/beta.html", Text: "shared body"}

	require.NoError(t, dedupe.Admit(first))
	err := dedupe.Admit(second)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateContent)
	// The error names the record that got there first.
	assert.Contains(t, err.Error(), "he/alpha.html")
	assert.Equal(t, 1, dedupe.Seen())
}

func TestDeduplicator_Admit_PrecomputedFingerprint(t *testing.T) {
	dedupe := NewDeduplicator()

	rec := &domain.Record{
		Identifier:  "he/alpha.html",
		Text:        "body",
		Fingerprint: "precomputed",
	}

	require.NoError(t, dedupe.Admit(rec))
	// An existing fingerprint is trusted, not recomputed.
	assert.Equal(t, "precomputed", rec.Fingerprint)

	other := &domain.Record{
		Identifier:  "en/alpha.html",
		Text:        "entirely different",
		Fingerprint: "precomputed",
	}
	err := dedupe.Admit(other)
	assert.ErrorIs(t, err, domain.ErrDuplicateContent)
}

func TestDeduplicator_FreshPerInstance(t *testing.T) {
	first := NewDeduplicator()
	require.NoError(t, first.Admit(&domain.Record{Identifier: "a", Text: "body"}))

	// A new deduplicator carries nothing over.
	second := NewDeduplicator()
	assert.NoError(t, second.Admit(&domain.Record{Identifier: "b", Text: "body"}))
	assert.Equal(t, 1, second.Seen())
}
