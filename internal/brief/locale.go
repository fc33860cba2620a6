package brief

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// supportedLocales is the closed set the provider can be asked to write in.
// The first entry is the fallback for unrecognized input.
var supportedLocales = []language.Tag{
	language.English,
	language.Korean,
	language.Japanese,
	language.Spanish,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// NormalizeLocale maps any BCP 47-ish input ("ko", "ko-KR", "en_US") to the
// nearest supported locale tag, falling back to English.
func NormalizeLocale(raw string) string {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if trimmed == "" {
		return supportedLocales[0].String()
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return supportedLocales[0].String()
	}
	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return supportedLocales[0].String()
	}
	return supportedLocales[index].String()
}

// LanguageName returns the English display name of a normalized locale, used
// verbatim in the output-language instruction sent to the provider.
func LanguageName(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return display.English.Tags().Name(supportedLocales[0])
	}
	return display.English.Tags().Name(tag)
}
