package domain

import "fmt"

// Language identifies the language used for prompt templates and generated
// marketing copy. The supported set is closed.
type Language string

const (
	// LanguageEnglish selects the English prompt template.
	LanguageEnglish Language = "en"

	// LanguageIndonesian selects the Indonesian prompt template.
	LanguageIndonesian Language = "id"
)

// ParseLanguage converts a raw tag into a Language. An empty tag defaults to
// English; anything outside the supported set is rejected.
func ParseLanguage(tag string) (Language, error) {
	switch tag {
	case "", string(LanguageEnglish):
		return LanguageEnglish, nil
	case string(LanguageIndonesian):
		return LanguageIndonesian, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, tag)
	}
}

// Valid reports whether the language is one of the supported tags.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageIndonesian
}

// String returns the language tag.
func (l Language) String() string {
	return string(l)
}
