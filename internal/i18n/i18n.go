// Package i18n loads flat JSON message catalogs and picks a language per request.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/language"
)

// Bundle holds the message catalogs of the supported languages.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported map[string]struct{}
	order     []string
	matcher   language.Matcher
}

// Load reads <dir>/<lang>.json for each supported language. Only the fallback catalog
// is mandatory.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []string{fallback}
	}
	b := &Bundle{
		dict:      map[string]map[string]string{},
		fallback:  fallback,
		supported: map[string]struct{}{},
	}
	for _, l := range supported {
		b.supported[l] = struct{}{}
		raw, err := os.ReadFile(filepath.Join(dir, l+".json"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("i18n: load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s not loaded", fallback)
	}

	b.order = []string{fallback}
	for _, l := range supported {
		if l != fallback {
			b.order = append(b.order, l)
		}
	}
	tags := make([]language.Tag, 0, len(b.order))
	for _, l := range b.order {
		tags = append(tags, language.Make(l))
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported lists the configured languages.
func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.supported))
	for k := range b.supported {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fallback returns the default language.
func (b *Bundle) Fallback() string { return b.fallback }

// T returns the message for key in lang, then in the fallback language, then key itself.
// Extra args are applied with fmt.Sprintf.
func (b *Bundle) T(lang, key string, args ...any) string {
	msg := key
	if m, ok := b.dict[lang]; ok && m[key] != "" {
		msg = m[key]
	} else if m, ok := b.dict[b.fallback]; ok && m[key] != "" {
		msg = m[key]
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Resolve picks the best supported language from an Accept-Language header. Regional
// variants match their base language ("fr-CA" serves "fr").
func (b *Bundle) Resolve(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(b.order) {
		return b.fallback
	}
	return b.order[idx]
}
