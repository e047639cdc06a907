package domain

import (
	"fmt"
	"strings"
)

// Locale is a supported UI/report language code.
type Locale string

const (
	LOCALE_TH Locale = "th"
	LOCALE_EN Locale = "en"
	LOCALE_LO Locale = "lo"
	LOCALE_MY Locale = "my"
)

// DefaultLocale is the language a new session starts in.
const DefaultLocale = LOCALE_TH

// SupportedLocales lists every locale with a question catalog.
var SupportedLocales = []Locale{LOCALE_TH, LOCALE_EN, LOCALE_LO, LOCALE_MY}

// IsValid reports whether the locale is supported.
func (l Locale) IsValid() bool {
	switch l {
	case LOCALE_TH, LOCALE_EN, LOCALE_LO, LOCALE_MY:
		return true
	default:
		return false
	}
}

// ParseLocale normalizes a language code.
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
	}
	return l, nil
}
