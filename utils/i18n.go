package utils

import (
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	// Bundle holds every loaded message catalog.
	Bundle *i18n.Bundle
	// Localizer is the English fallback used outside a request context.
	Localizer *i18n.Localizer
)

var localeFiles = []string{
	"locales/active.en.toml",
	"locales/active.ja.toml",
}

// InitI18n loads the message catalogs. A missing catalog logs a warning and
// falls back to message IDs rather than failing startup.
func InitI18n() error {
	Bundle = i18n.NewBundle(language.English)
	Bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := Bundle.LoadMessageFile(file); err != nil {
			Log.Warn("Failed to load locale %s: %v", file, err)
		}
	}

	Localizer = i18n.NewLocalizer(Bundle, language.English.String())

	Log.Info("i18n system initialized")
	return nil
}

// GetLocalizer returns a localizer for the given language tag.
func GetLocalizer(lang string) *i18n.Localizer {
	if lang == "" {
		lang = "en"
	}
	return i18n.NewLocalizer(Bundle, lang)
}

// T translates a message ID, falling back to the ID itself.
func T(localizer *i18n.Localizer, messageID string) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// TWithData translates a message ID with template data.
func TWithData(localizer *i18n.Localizer, messageID string, data map[string]interface{}) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}
