// Package i18n looks up user-facing texts by message key and language.
//
// Texts live in YAML files, one flat key/value map per language, embedded
// into the binary from locales/. A language is read on its first lookup and
// cached for the life of the Catalog; files are never re-read.
//
// Lookup order: the requested language, then the default language, then the
// key itself.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

//go:embed locales/*.yaml
var embedded embed.FS

// Language is a supported interface language.
type Language struct {
	Code string
	Name string
}

// Languages are offered in this order in the language menu.
var Languages = []Language{
	{Code: "ru", Name: "🇷🇺 Русский"},
	{Code: "en", Name: "🇬🇧 English"},
}

const FallbackLanguage = "ru"

// Supported reports whether code is one of Languages.
func Supported(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LanguageName returns the display name of code, or "Unknown".
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return "Unknown"
}

type Catalog struct {
	fsys        fs.FS
	dir         string
	defaultLang string
	log         logging.Logger

	mu    sync.Mutex
	cache map[string]map[string]string
}

// New returns a catalog over the embedded locales. An unsupported default
// language falls back to FallbackLanguage.
func New(defaultLang string, log logging.Logger) *Catalog {
	return NewFromFS(embedded, "locales", defaultLang, log)
}

// NewFromFS returns a catalog reading <dir>/<lang>.yaml from fsys.
func NewFromFS(fsys fs.FS, dir, defaultLang string, log logging.Logger) *Catalog {
	if !Supported(defaultLang) {
		defaultLang = FallbackLanguage
	}
	return &Catalog{
		fsys:        fsys,
		dir:         dir,
		defaultLang: defaultLang,
		log:         log,
		cache:       map[string]map[string]string{},
	}
}

func (c *Catalog) DefaultLanguage() string { return c.defaultLang }

// T returns the text for key in lang. With args the text is used as a
// fmt format string.
func (c *Catalog) T(lang, key string, args ...any) string {
	text, ok := c.lookup(lang, key)
	if !ok && lang != c.defaultLang {
		text, ok = c.lookup(c.defaultLang, key)
	}
	if !ok {
		text = key
	}

	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Match reports whether text equals the key's text in any supported
// language. Reply-keyboard buttons come back as their label.
func (c *Catalog) Match(text, key string) bool {
	for _, l := range Languages {
		if v, ok := c.lookup(l.Code, key); ok && v == text {
			return true
		}
	}
	return false
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	texts := c.load(lang)
	v, ok := texts[key]
	return v, ok
}

// load returns the cached texts of lang, reading them on first use. A
// language that fails to load is cached as empty.
func (c *Catalog) load(lang string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if texts, ok := c.cache[lang]; ok {
		return texts
	}

	texts := map[string]string{}
	if Supported(lang) {
		data, err := fs.ReadFile(c.fsys, path.Join(c.dir, lang+".yaml"))
		if err == nil {
			err = yaml.Unmarshal(data, &texts)
		}
		if err != nil {
			c.log.Error(context.Background(), "failed to load locale", "lang", lang, "error", err)
			texts = map[string]string{}
		}
	}

	c.cache[lang] = texts
	return texts
}
