package i18n

import (
	"embed"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.zh-TW.toml", "active.en.toml"}

var _ output.T = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	log             *logger.Logger

	mu         sync.Mutex
	localizers map[string]*i18n.Localizer
}

// NewTranslator builds a Translator over the embedded message files.
// An unparsable defaultLocale falls back to Traditional Chinese.
func NewTranslator(defaultLocale string, log *logger.Logger) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.TraditionalChinese
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Error("i18n: failed to load message file", "file", file, "error", err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		log:             log.With("component", "i18n"),
		localizers:      make(map[string]*i18n.Localizer),
	}
}

// T renders key for locale, falling back to the default locale and finally
// to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	localizer := t.localizer(locale)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.log.Warn("localize failed", "key", key, "locale", locale, "error", err)
		return key
	}
	return msg
}

// localizer returns the cached localizer for locale with the default
// language as fallback.
func (t *Translator) localizer(locale string) *i18n.Localizer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.localizers[locale]; ok {
		return l
	}
	languages := make([]string, 0, 2)
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())
	l := i18n.NewLocalizer(t.bundle, languages...)
	t.localizers[locale] = l
	return l
}

// Languages lists the tags with loaded messages.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}
