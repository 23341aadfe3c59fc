// Package i18n looks up user-facing strings in the embedded lang catalogs.
// Messages take named {placeholders} only.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	goLocale "github.com/jeandeaual/go-locale"
	i18nLib "github.com/kaptinlin/go-i18n"
	"github.com/meza/covgate/internal/environment"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

//go:embed lang/*.json
var catalogFS embed.FS

const defaultLocale = "en-GB"

// Vars fills a message's named placeholders.
type Vars map[string]any

type catalog struct {
	mu        sync.Mutex // the localizer caches parsed messages without locking
	localizer *i18nLib.Localizer
}

var (
	activeMu      sync.Mutex
	active        *catalog
	catalogDir    = "lang"
	systemLocales = goLocale.GetLocales
)

// T returns the message for key in the user's language. Later Vars win on duplicate names.
// Unknown keys, and every key in test mode, come back as the key itself.
func T(key string, vars ...Vars) string {
	merged := mergeVars(vars)
	if environment.TestMode() {
		return echoKey(key, merged)
	}

	current, err := activeCatalog()
	if err != nil {
		return key
	}
	return current.translate(key, merged)
}

func (current *catalog) translate(key string, vars Vars) string {
	current.mu.Lock()
	defer current.mu.Unlock()

	if len(vars) == 0 {
		return current.localizer.Get(key)
	}
	return current.localizer.Get(key, i18nLib.Vars(vars))
}

func activeCatalog() (*catalog, error) {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active != nil {
		return active, nil
	}
	loaded, err := loadCatalog(preferredLocales())
	if err != nil {
		return nil, err
	}
	active = loaded
	return active, nil
}

// resetForTesting drops the loaded catalog so the next T reloads it.
func resetForTesting() {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = nil
}

func loadCatalog(locales []string) (*catalog, error) {
	pattern := path.Join(catalogDir, "*.json")
	files, err := fs.Glob(catalogFS, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "list catalogs in %s", catalogDir)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no catalogs in %s", catalogDir)
	}

	available := []string{defaultLocale}
	for _, file := range files {
		locale := strings.TrimSuffix(path.Base(file), path.Ext(file))
		if !strings.EqualFold(locale, defaultLocale) {
			available = append(available, locale)
		}
	}

	bundle := i18nLib.NewBundle(
		i18nLib.WithDefaultLocale(defaultLocale),
		i18nLib.WithLocales(available...),
	)
	if err := bundle.LoadFS(catalogFS, pattern); err != nil {
		return nil, errors.Wrap(err, "load catalogs")
	}

	return &catalog{localizer: bundle.NewLocalizer(locales...)}, nil
}

// preferredLocales puts LANG first, then the system locales, each followed by its base language.
func preferredLocales() []string {
	if locale, ok := environment.LocaleOverride(); ok {
		return expandLocales([]string{locale})
	}

	detected, err := systemLocales()
	if err != nil || len(detected) == 0 {
		return []string{language.English.String()}
	}
	return expandLocales(detected)
}

func expandLocales(raw []string) []string {
	seen := make(map[string]bool, len(raw)*2)
	out := make([]string, 0, len(raw)*2)
	add := func(locale string) {
		if locale == "" || seen[locale] {
			return
		}
		seen[locale] = true
		out = append(out, locale)
	}

	for _, name := range raw {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		add(tag.String())
		base, _ := tag.Base()
		add(base.String())
	}
	return out
}

func mergeVars(vars []Vars) Vars {
	if len(vars) == 0 {
		return nil
	}
	merged := Vars{}
	for _, set := range vars {
		for name, value := range set {
			merged[name] = value
		}
	}
	return merged
}

// echoKey renders key(name=value, ...) with names sorted, so test output is stable.
func echoKey(key string, vars Vars) string {
	if len(vars) == 0 {
		return key
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%v", name, vars[name]))
	}
	return key + "(" + strings.Join(pairs, ", ") + ")"
}
