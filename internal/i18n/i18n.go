package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

const (
	LangRU = "ru"
	LangEN = "en"
)

var requiredLocales = []string{LangEN, LangRU}

type catalog map[string]string

// Manager resolves message keys per language, falling back to the default
// language and then to the key itself.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]catalog
	supported       []string
	matcher         language.Matcher
	matcherTags     []string
}

// NewManager loads the locales compiled into the binary.
func NewManager(defaultLanguage string) (*Manager, error) {
	return NewManagerFS(defaultLanguage, embeddedLocales, "locales")
}

func NewManagerFS(defaultLanguage string, fsys fs.FS, localesDir string) (*Manager, error) {
	files, err := fs.Glob(fsys, path.Join(localesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}

	manager := &Manager{catalogs: make(map[string]catalog, len(files))}
	for _, file := range files {
		code := strings.ToLower(strings.TrimSuffix(path.Base(file), ".json"))
		entries, err := readCatalog(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", code, err)
		}
		manager.catalogs[code] = entries
		manager.supported = append(manager.supported, code)
	}

	for _, code := range requiredLocales {
		if _, ok := manager.catalogs[code]; !ok {
			return nil, fmt.Errorf("required locale %q missing in %s", code, localesDir)
		}
	}
	sort.Strings(manager.supported)

	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	manager.buildMatcher()
	return manager, nil
}

func readCatalog(fsys fs.FS, file string) (catalog, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}
	entries := catalog{}
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("empty catalog")
	}
	return entries, nil
}

// buildMatcher puts the default language first so unmatched headers resolve to it.
func (manager *Manager) buildMatcher() {
	manager.matcherTags = []string{manager.defaultLanguage}
	for _, code := range manager.supported {
		if code != manager.defaultLanguage {
			manager.matcherTags = append(manager.matcherTags, code)
		}
	}

	tags := make([]language.Tag, 0, len(manager.matcherTags))
	for _, code := range manager.matcherTags {
		tags = append(tags, language.Make(code))
	}
	manager.matcher = language.NewMatcher(tags)
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

// NormalizeLanguage reduces a tag like "ru_RU" to a supported base language.
func (manager *Manager) NormalizeLanguage(raw string) string {
	code := baseLanguage(raw)
	if _, ok := manager.catalogs[code]; ok {
		return code
	}
	return manager.defaultLanguage
}

func (manager *Manager) DetectFromAcceptLanguage(header string) string {
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return manager.defaultLanguage
	}
	_, index, confidence := manager.matcher.Match(desired...)
	if confidence == language.No {
		return manager.defaultLanguage
	}
	return manager.matcherTags[index]
}

func (manager *Manager) lookup(lang string, key string) (string, bool) {
	for _, code := range []string{manager.NormalizeLanguage(lang), manager.defaultLanguage} {
		if value := strings.TrimSpace(manager.catalogs[code][key]); value != "" {
			return manager.catalogs[code][key], true
		}
	}
	return "", false
}

func (manager *Manager) Translate(lang string, key string) string {
	if value, ok := manager.lookup(lang, key); ok {
		return value
	}
	return key
}

func (manager *Manager) Translatef(lang string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(lang, key), args...)
}

func baseLanguage(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return strings.ToLower(strings.SplitN(raw, "-", 2)[0])
	}
	base, _ := tag.Base()
	return base.String()
}

// PhaseCopy is the localized presentation of a cycle phase.
type PhaseCopy struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func (manager *Manager) Phase(lang string, phase string) PhaseCopy {
	prefix := "phase." + phase + "."
	return PhaseCopy{
		Name:        manager.Translate(lang, prefix+"name"),
		Icon:        manager.Translate(lang, prefix+"icon"),
		Description: manager.Translate(lang, prefix+"description"),
	}
}

// List returns key.1, key.2, ... until the first missing entry.
func (manager *Manager) List(lang string, key string) []string {
	var result []string
	for index := 1; ; index++ {
		value, ok := manager.lookup(lang, fmt.Sprintf("%s.%d", key, index))
		if !ok {
			return result
		}
		result = append(result, value)
	}
}
