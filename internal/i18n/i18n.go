package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported UI language code.
type Language string

const (
	Georgian Language = "ka"
	English  Language = "en"

	// Fallback is used when a key is missing in the requested language.
	Fallback = Georgian
)

// Supported lists the languages the catalog carries, in display order.
func Supported() []Language {
	return []Language{Georgian, English}
}

// Parse returns the Language for code, or false if the catalog has no such language.
func Parse(code string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case Georgian:
		return Georgian, true
	case English:
		return English, true
	default:
		return "", false
	}
}

// English is listed first so that an unmatched locale resolves to it.
var matcher = language.NewMatcher([]language.Tag{language.English, language.Georgian})

// MatchLocale maps a device locale (BCP 47 tag or POSIX form such as
// "ka_GE.UTF-8") to a UI language: Georgian locales give ka, anything else en.
func MatchLocale(locale string) Language {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return English
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx != 1 {
		return English
	}
	return Georgian
}

// Translate renders key in lang. Missing keys fall back to the Georgian
// text, then to the key itself. Args are applied with fmt verbs.
func Translate(lang Language, key string, args ...any) string {
	text, ok := catalog[lang][key]
	if !ok {
		text, ok = catalog[Fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Has reports whether the catalog defines key.
func Has(key string) bool {
	_, ok := catalog[Fallback][key]
	return ok
}

// LanguageSource reports the language currently selected by the user.
type LanguageSource interface {
	Language() Language
}

// Translator renders keys in whatever language its source currently reports.
type Translator struct {
	source LanguageSource
}

// NewTranslator creates a Translator reading the language from source.
func NewTranslator(source LanguageSource) *Translator {
	return &Translator{source: source}
}

// T renders key in the current language.
func (t *Translator) T(key string, args ...any) string {
	lang := Fallback
	if t != nil && t.source != nil {
		lang = t.source.Language()
	}
	return Translate(lang, key, args...)
}

// Fixed is a LanguageSource that always reports the same language.
type Fixed Language

// Language implements LanguageSource.
func (f Fixed) Language() Language { return Language(f) }
