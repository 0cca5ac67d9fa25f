package domain

import (
	"sort"
	"strings"
)

// SectionMapping maps section slugs between the source language and the
// slug form used in translated filenames. The corpus names a translated
// article after the translated slug, so recovering the article key for
// alignment means mapping the slug back to its source form.
type SectionMapping struct {
	toTranslated map[string]string
	toSource     map[string]string

	// slugs sorted longest-first so prefix matching never picks a
	// shorter slug that happens to prefix a longer one.
	sourceSlugs     []string
	translatedSlugs []string
}

// NewSectionMapping builds a mapping from source-language slug to
// translated slug. The zero-value mapping matches nothing.
func NewSectionMapping(sourceToTranslated map[string]string) *SectionMapping {
	m := &SectionMapping{
		toTranslated: make(map[string]string, len(sourceToTranslated)),
		toSource:     make(map[string]string, len(sourceToTranslated)),
	}
	for src, tr := range sourceToTranslated {
		src = strings.ToLower(src)
		tr = strings.ToLower(tr)
		m.toTranslated[src] = tr
		m.toSource[tr] = src
		m.sourceSlugs = append(m.sourceSlugs, src)
		m.translatedSlugs = append(m.translatedSlugs, tr)
	}
	longestFirst(m.sourceSlugs)
	longestFirst(m.translatedSlugs)
	return m
}

func longestFirst(slugs []string) {
	sort.Slice(slugs, func(i, j int) bool {
		if len(slugs[i]) != len(slugs[j]) {
			return len(slugs[i]) > len(slugs[j])
		}
		return slugs[i] < slugs[j]
	})
}

// Translated returns the translated form of a source slug.
func (m *SectionMapping) Translated(slug string) (string, bool) {
	tr, ok := m.toTranslated[strings.ToLower(slug)]
	return tr, ok
}

// Source returns the source form of a translated slug.
func (m *SectionMapping) Source(slug string) (string, bool) {
	src, ok := m.toSource[strings.ToLower(slug)]
	return src, ok
}

// CanonicalStem rewrites a filename stem to its source-language form.
// A stem beginning with a translated slug has that slug replaced by the
// source slug; stems already in source form, or with no known slug,
// come back unchanged apart from lowercasing.
func (m *SectionMapping) CanonicalStem(stem string) string {
	stem = strings.ToLower(stem)
	if slug, ok := matchSlug(stem, m.translatedSlugs); ok {
		return m.toSource[slug] + stem[len(slug):]
	}
	return stem
}

// TranslatedStem rewrites a source-form stem into the translated form
// used by translation filenames. The inverse of CanonicalStem.
func (m *SectionMapping) TranslatedStem(stem string) string {
	stem = strings.ToLower(stem)
	if slug, ok := matchSlug(stem, m.sourceSlugs); ok {
		return m.toTranslated[slug] + stem[len(slug):]
	}
	return stem
}

// SectionOf returns the source-form section slug of a canonical stem,
// or "" when the stem carries no known section.
func (m *SectionMapping) SectionOf(stem string) string {
	stem = strings.ToLower(stem)
	if slug, ok := matchSlug(stem, m.sourceSlugs); ok {
		return slug
	}
	return ""
}

// matchSlug finds the longest slug that is the stem itself or a prefix
// followed by a separator. "actualia-5" matches "actualia";
// "actualian-5" does not.
func matchSlug(stem string, slugs []string) (string, bool) {
	for _, slug := range slugs {
		if stem == slug {
			return slug, true
		}
		if strings.HasPrefix(stem, slug) {
			rest := stem[len(slug):]
			if rest[0] == '-' || rest[0] == '_' || rest[0] == '.' {
				return slug, true
			}
		}
	}
	return "", false
}

// DomainMapping resolves a content domain label from a record's section
// and source kind.
type DomainMapping struct {
	bySection map[string]string

	// textDomain applies to every pre-converted text file regardless of
	// section; the corpus keeps its long-form writing in PDFs.
	textDomain string

	// fallback is used when nothing else matches.
	fallback string
}

// NewDomainMapping builds a domain mapping. Section keys are source-form
// slugs. Empty textDomain or fallback fall back to the fallback label
// and "general" respectively.
func NewDomainMapping(bySection map[string]string, textDomain, fallback string) *DomainMapping {
	if fallback == "" {
		fallback = "general"
	}
	if textDomain == "" {
		textDomain = fallback
	}
	m := &DomainMapping{
		bySection:  make(map[string]string, len(bySection)),
		textDomain: textDomain,
		fallback:   fallback,
	}
	for slug, dom := range bySection {
		m.bySection[strings.ToLower(slug)] = dom
	}
	return m
}

// Resolve returns the domain label for a section and kind.
func (m *DomainMapping) Resolve(section string, kind SourceKind) string {
	if kind == KindText {
		return m.textDomain
	}
	if dom, ok := m.bySection[strings.ToLower(section)]; ok {
		return dom
	}
	return m.fallback
}

// Fallback returns the label used when no mapping matches.
func (m *DomainMapping) Fallback() string {
	return m.fallback
}
