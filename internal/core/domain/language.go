package domain

import "strings"

// CJKLanguages are the language codes counted by characters rather
// than by space-separated tokens.
var CJKLanguages = []string{"zh", "ja", "ko"}

// IsCJKLanguage reports whether the code names a language written
// without spaces between words. Regional variants ("zh-tw") match
// their base code.
func IsCJKLanguage(code string) bool {
	code = strings.ToLower(code)
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	for _, c := range CJKLanguages {
		if code == c {
			return true
		}
	}
	return false
}

// NormalizeLanguage lowercases a language code and trims surrounding
// space so path-derived codes compare cleanly.
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
