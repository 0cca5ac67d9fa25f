package services

import (
	"fmt"
	"strings"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/logger"
)

// AlignmentValidator enforces all-or-nothing multilingual alignment.
// An article ships with every configured language variant or not at all,
// across every artifact.
type AlignmentValidator struct {
	languages []string
	tainted   map[string]string
}

// NewAlignmentValidator creates a validator for the given language set.
func NewAlignmentValidator(languages []string) *AlignmentValidator {
	return &AlignmentValidator{
		languages: languages,
		tainted:   make(map[string]string),
	}
}

// Taint marks an article key whose variant was rejected upstream
// (duplicate, empty, unreadable). A tainted group can never be complete,
// so it is dropped even if the surviving variants cover every language.
func (v *AlignmentValidator) Taint(articleKey, reason string) {
	if articleKey == "" {
		return
	}
	if _, ok := v.tainted[articleKey]; !ok {
		v.tainted[articleKey] = reason
	}
}

// DroppedGroup is one article group that failed validation.
type DroppedGroup struct {
	// Key is the article key.
	Key string

	// Reason says why the group was dropped.
	Reason string

	// Records are the surviving variants that got dropped with it.
	Records []*domain.Record
}

// AlignmentResult is the outcome of validating a record set.
type AlignmentResult struct {
	// Aligned holds complete groups only, original order preserved.
	Aligned *domain.RecordSet

	// GroupsTotal and GroupsAligned count article groups.
	GroupsTotal   int
	GroupsAligned int

	// Dropped lists failed groups with reasons.
	Dropped []DroppedGroup
}

// Validate filters the set down to complete article groups.
func (v *AlignmentValidator) Validate(set *domain.RecordSet) *AlignmentResult {
	keys, groups := set.ByArticleKey()

	result := &AlignmentResult{
		GroupsTotal: len(keys),
	}
	complete := make(map[string]bool, len(keys))

	for _, key := range keys {
		group := groups[key]
		if reason := v.groupProblem(key, group); reason != "" {
			logger.Debug("Dropping group %s: %s", key, reason)
			result.Dropped = append(result.Dropped, DroppedGroup{
				Key:     key,
				Reason:  reason,
				Records: group,
			})
			continue
		}
		complete[key] = true
	}

	result.Aligned = set.Filter(func(r *domain.Record) bool {
		return complete[r.ArticleKey]
	})
	result.GroupsAligned = len(complete)
	return result
}

// groupProblem returns "" for a complete group, or the reason it fails.
func (v *AlignmentValidator) groupProblem(key string, group []*domain.Record) string {
	if reason, ok := v.tainted[key]; ok {
		return fmt.Sprintf("variant rejected earlier: %s", reason)
	}

	byLang := make(map[string]int, len(group))
	for _, r := range group {
		byLang[r.Language]++
	}

	var missing []string
	for _, lang := range v.languages {
		switch byLang[lang] {
		case 0:
			missing = append(missing, lang)
		case 1:
		default:
			return fmt.Sprintf("language %s present %d times", lang, byLang[lang])
		}
	}
	if len(missing) > 0 {
		return "missing languages: " + strings.Join(missing, ", ")
	}

	domainLabel := group[0].Domain
	for _, r := range group[1:] {
		if r.Domain != domainLabel {
			return fmt.Sprintf("domain mismatch: %s vs %s", domainLabel, r.Domain)
		}
	}

	return ""
}
