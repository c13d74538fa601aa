package i18n

import (
	"context"
	"errors"
	"strings"
)

// Language is one of the fixed set of conversation languages.
type Language string

const (
	AZ Language = "AZ"
	EN Language = "EN"
	RU Language = "RU"
)

// Default is the language used before the client has picked one.
const Default = AZ

var ErrMissingTranslation = errors.New("i18n: missing translation")
var ErrUnknownText = errors.New("i18n: text is not a known localized string")

// Parse maps a language option key to a Language. It accepts both the
// graph's option keys ("lang.az") and bare tags ("az", "AZ").
func Parse(key string) (Language, bool) {
	tag := strings.ToLower(strings.TrimSpace(key))
	tag = strings.TrimPrefix(tag, "lang.")
	switch tag {
	case "az":
		return AZ, true
	case "en":
		return EN, true
	case "ru":
		return RU, true
	default:
		return "", false
	}
}

// Translator resolves localization keys to display text and back.
// Translate never falls back to another language; a missing pair is
// ErrMissingTranslation. ReverseLookup searches every language, since an
// inbound event only carries the text the user saw.
type Translator interface {
	Translate(ctx context.Context, key string, lang Language) (string, error)
	ReverseLookup(ctx context.Context, text string) (string, error)
}
