package model

import "strings"

// Language is the language generated content is written in.
type Language string

const (
	LanguagePolish   Language = "PL"
	LanguageEnglish  Language = "ENG"
	LanguageSilesian Language = "ŚLĄSKI"
	LanguageGenZPL   Language = "GEN_Z_PL"
)

// DefaultLanguage is used when neither the request nor the settings pick one.
const DefaultLanguage = LanguageEnglish

var languageDescriptions = map[Language]string{
	LanguageEnglish:  "US English",
	LanguagePolish:   "Polish",
	LanguageSilesian: "Polish with a Silesian dialect",
	LanguageGenZPL:   "Polish Gen Z slang",
}

// ParseLanguage accepts the language codes case-insensitively.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := languageDescriptions[l]
	return l, ok
}

// Description is a human readable name used in prompts.
func (l Language) Description() string {
	return languageDescriptions[l]
}
