package domain

import "time"

// Record represents a fully processed corpus document.
// It is the canonical representation after extraction and normalization,
// and the only shape emitters ever see.
type Record struct {
	// Identifier is the unique per-run identifier, "<lang>/<filename>".
	Identifier string

	// ArticleKey groups translations of the same article across languages.
	// It is the source-language form of the file stem.
	ArticleKey string

	// Section is the source-language section slug, or "main" when the
	// filename carries no known section prefix.
	Section string

	// Domain is the content domain label resolved from the section.
	Domain string

	// Language is the ISO 639-1 code inferred from the file path.
	Language string

	// Kind records the source format the text was extracted from.
	Kind SourceKind

	// Title is the normalized document title.
	Title string

	// RawTitle is the title as extracted, before normalization.
	RawTitle string

	// Text is the normalized body. Word and character counts,
	// the fingerprint and all emitted text refer to this field.
	Text string

	// RawText is the body as extracted, before normalization.
	RawText string

	// RawHTML is the original markup. Populated only when the dataset
	// is configured to retain it.
	RawHTML string

	// WordCount is the language-aware token count of Text.
	WordCount int

	// CharCount is the rune count of Text.
	CharCount int

	// Fingerprint is the hex SHA-256 of Text.
	Fingerprint string

	// URL is the public address of this document.
	URL string

	// TranslationOf is the URL of the source-language original.
	// Empty for source-language records.
	TranslationOf string

	// Path is the corpus-relative file path, kept for diagnostics
	// and the audit trail. Never emitted.
	Path string

	// Added is when the record entered the dataset, UTC.
	Added time.Time
}

// IsTranslation reports whether the record is a translated variant
// rather than a source-language original.
func (r *Record) IsTranslation() bool {
	return r.TranslationOf != ""
}

// RecordSet is the insertion-ordered collection of accepted records.
// All emitters consume the same set, which is what keeps the three
// artifacts synchronized. Records must not be mutated after Add.
type RecordSet struct {
	records []*Record
	byID    map[string]*Record
}

// NewRecordSet returns an empty record set.
func NewRecordSet() *RecordSet {
	return &RecordSet{byID: make(map[string]*Record)}
}

// Add appends a record, rejecting duplicate identifiers.
func (s *RecordSet) Add(r *Record) error {
	if r.Identifier == "" {
		return ErrInvalidInput
	}
	if _, ok := s.byID[r.Identifier]; ok {
		return ErrAlreadyExists
	}
	s.byID[r.Identifier] = r
	s.records = append(s.records, r)
	return nil
}

// Get returns the record with the given identifier.
func (s *RecordSet) Get(identifier string) (*Record, bool) {
	r, ok := s.byID[identifier]
	return r, ok
}

// Records returns the records in insertion order.
// The returned slice is shared; callers must not modify it.
func (s *RecordSet) Records() []*Record {
	return s.records
}

// Len returns the number of records in the set.
func (s *RecordSet) Len() int {
	return len(s.records)
}

// ByArticleKey groups records by article key, preserving insertion
// order both of the groups and within each group.
func (s *RecordSet) ByArticleKey() ([]string, map[string][]*Record) {
	keys := make([]string, 0)
	groups := make(map[string][]*Record)
	for _, r := range s.records {
		if _, ok := groups[r.ArticleKey]; !ok {
			keys = append(keys, r.ArticleKey)
		}
		groups[r.ArticleKey] = append(groups[r.ArticleKey], r)
	}
	return keys, groups
}

// Filter returns a new set holding the records keep reports true for,
// in the original order.
func (s *RecordSet) Filter(keep func(*Record) bool) *RecordSet {
	out := NewRecordSet()
	for _, r := range s.records {
		if keep(r) {
			// Identifiers were unique in the source set.
			_ = out.Add(r)
		}
	}
	return out
}
