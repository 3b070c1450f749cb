package messages

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured and as the fallback
// for keys missing from another locale.
const DefaultLocale = "en"

//go:embed messages_*.yaml
var bundleFS embed.FS

var (
	loadOnce sync.Once
	catalogs map[string]map[string]string
	loadErr  error
)

// Bundle resolves localized message templates for validators.
type Bundle struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

// New returns the bundle for locale ("en", "ja").
// An empty locale selects DefaultLocale.
func New(locale string) (*Bundle, error) {
	all, err := loadCatalogs()
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = DefaultLocale
	}
	locale = strings.ToLower(locale)
	msgs, ok := all[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q (available: %s)", locale, strings.Join(Locales(), ", "))
	}
	return &Bundle{
		locale:   locale,
		messages: msgs,
		fallback: all[DefaultLocale],
	}, nil
}

// Locales lists the embedded locales in sorted order.
func Locales() []string {
	all, err := loadCatalogs()
	if err != nil {
		return nil
	}
	locales := make([]string, 0, len(all))
	for locale := range all {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Locale returns the bundle locale.
func (b *Bundle) Locale() string {
	return b.locale
}

// Message formats the template registered for validator (or validator.key
// when key is set). Missing templates fall back to the default locale, then
// to the arguments joined by spaces.
func (b *Bundle) Message(validator, key string, args ...any) string {
	id := validator
	if key != "" {
		id = validator + "." + key
	}
	if tmpl, ok := b.messages[id]; ok {
		return Format(tmpl, args...)
	}
	if tmpl, ok := b.fallback[id]; ok {
		return Format(tmpl, args...)
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, formatArg(arg))
	}
	return strings.Join(parts, " ")
}

func loadCatalogs() (map[string]map[string]string, error) {
	loadOnce.Do(func() {
		entries, err := bundleFS.ReadDir(".")
		if err != nil {
			loadErr = fmt.Errorf("failed to list message bundles: %w", err)
			return
		}
		catalogs = make(map[string]map[string]string, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			locale := strings.TrimSuffix(strings.TrimPrefix(name, "messages_"), ".yaml")
			data, err := bundleFS.ReadFile(name)
			if err != nil {
				loadErr = fmt.Errorf("failed to read message bundle %q: %w", name, err)
				return
			}
			msgs := make(map[string]string)
			if err := yaml.Unmarshal(data, &msgs); err != nil {
				loadErr = fmt.Errorf("failed to parse message bundle %q: %w", name, err)
				return
			}
			catalogs[locale] = msgs
		}
	})
	return catalogs, loadErr
}
