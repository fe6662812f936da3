package models

import (
	"fmt"

	"golang.org/x/text/language"
)

type Locale string

const (
	LocaleKo Locale = "ko"
	LocaleEn Locale = "en"

	DefaultLocale = LocaleKo
)

var (
	supportedTags = []language.Tag{language.Korean, language.English}
	localeMatcher = language.NewMatcher(supportedTags)
)

// ParseLocale matches s (a tag like "en-US" or an Accept-Language list)
// against the supported locales.
func ParseLocale(s string) (Locale, error) {
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return DefaultLocale, fmt.Errorf("invalid locale %q", s)
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale, fmt.Errorf("unsupported locale %q", s)
	}
	if supportedTags[idx] == language.English {
		return LocaleEn, nil
	}
	return LocaleKo, nil
}

func (l Locale) Tag() language.Tag {
	if l == LocaleEn {
		return language.English
	}
	return language.Korean
}
