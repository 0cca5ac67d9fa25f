package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecord_Fields tests Record structure fields
func TestRecord_Fields(t *testing.T) {
	added := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := Record{
		Identifier:    "en/alternative-commentary-5.html",
		ArticleKey:    "actualia-5",
		Section:       "actualia",
		Domain:        "commentary",
		Language:      "en",
		Kind:          KindHTML,
		Title:         "On the State of Things",
		Text:          "Body text.",
		WordCount:     2,
		CharCount:     10,
		Fingerprint:   "abc123",
		URL:           "https://degeneration-of-nation.org/en/alternative-commentary-5.html",
		TranslationOf: "https://hitdarderut-haaretz.org/actualia-5.html",
		Path:          "en/alternative-commentary-5.html",
		Added:         added,
	}

	assert.Equal(t, "en/alternative-commentary-5.html", rec.Identifier)
	assert.Equal(t, "actualia-5", rec.ArticleKey)
	assert.Equal(t, "actualia", rec.Section)
	assert.Equal(t, "commentary", rec.Domain)
	assert.Equal(t, KindHTML, rec.Kind)
	assert.Equal(t, added, rec.Added)
	assert.True(t, rec.IsTranslation())
}

// TestRecord_IsTranslation tests source vs translation detection
func TestRecord_IsTranslation(t *testing.T) {
	source := Record{Identifier: "he/actualia-5.html", Language: "he"}
	translation := Record{
		Identifier:    "en/alternative-commentary-5.html",
		Language:      "en",
		TranslationOf: "https://hitdarderut-haaretz.org/actualia-5.html",
	}

	assert.False(t, source.IsTranslation())
	assert.True(t, translation.IsTranslation())
}

// TestRecordSet_Add tests insertion and duplicate identifier rejection
func TestRecordSet_Add(t *testing.T) {
	set := NewRecordSet()

	err := set.Add(&Record{Identifier: "he/actualia-1.html"})
	require.NoError(t, err)

	err = set.Add(&Record{Identifier: "he/actualia-2.html"})
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len())

	err = set.Add(&Record{Identifier: "he/actualia-1.html"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, 2, set.Len())
}

// TestRecordSet_AddEmptyIdentifier tests rejection of blank identifiers
func TestRecordSet_AddEmptyIdentifier(t *testing.T) {
	set := NewRecordSet()

	err := set.Add(&Record{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, set.Len())
}

// TestRecordSet_Get tests lookup by identifier
func TestRecordSet_Get(t *testing.T) {
	set := NewRecordSet()
	require.NoError(t, set.Add(&Record{Identifier: "he/filosofia-3.html", Title: "Learning"}))

	rec, ok := set.Get("he/filosofia-3.html")
	require.True(t, ok)
	assert.Equal(t, "Learning", rec.Title)

	_, ok = set.Get("he/missing.html")
	assert.False(t, ok)
}

// TestRecordSet_Order tests that Records preserves insertion order
func TestRecordSet_Order(t *testing.T) {
	set := NewRecordSet()
	ids := []string{
		"he/actualia-1.html",
		"he/actualia-2.html",
		"en/alternative-commentary-1.html",
		"zh/alternative-commentary-1.html",
	}
	for _, id := range ids {
		require.NoError(t, set.Add(&Record{Identifier: id}))
	}

	got := set.Records()
	require.Len(t, got, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, got[i].Identifier)
	}
}

// TestRecordSet_ByArticleKey tests grouping with preserved order
func TestRecordSet_ByArticleKey(t *testing.T) {
	set := NewRecordSet()
	require.NoError(t, set.Add(&Record{Identifier: "he/actualia-1.html", ArticleKey: "actualia-1"}))
	require.NoError(t, set.Add(&Record{Identifier: "he/filosofia-2.html", ArticleKey: "filosofia-2"}))
	require.NoError(t, set.Add(&Record{Identifier: "en/alternative-commentary-1.html", ArticleKey: "actualia-1"}))

	keys, groups := set.ByArticleKey()

	require.Equal(t, []string{"actualia-1", "filosofia-2"}, keys)
	require.Len(t, groups["actualia-1"], 2)
	assert.Equal(t, "he/actualia-1.html", groups["actualia-1"][0].Identifier)
	assert.Equal(t, "en/alternative-commentary-1.html", groups["actualia-1"][1].Identifier)
	require.Len(t, groups["filosofia-2"], 1)
}

// TestRecordSet_Filter tests order-preserving filtering
func TestRecordSet_Filter(t *testing.T) {
	set := NewRecordSet()
	require.NoError(t, set.Add(&Record{Identifier: "he/a.html", Language: "he"}))
	require.NoError(t, set.Add(&Record{Identifier: "en/a.html", Language: "en"}))
	require.NoError(t, set.Add(&Record{Identifier: "he/b.html", Language: "he"}))

	hebrew := set.Filter(func(r *Record) bool { return r.Language == "he" })

	require.Equal(t, 2, hebrew.Len())
	assert.Equal(t, "he/a.html", hebrew.Records()[0].Identifier)
	assert.Equal(t, "he/b.html", hebrew.Records()[1].Identifier)
	// the source set is untouched
	assert.Equal(t, 3, set.Len())
}
