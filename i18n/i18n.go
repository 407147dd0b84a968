// Package i18n translates relkit's console output. Catalogs are embedded
// from locales/<lang>/LC_MESSAGES/relkit.po; a message without a
// translation prints in English.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "relkit"

// envLanguage lists where the message language is looked up, first match
// wins. LANGUAGE may hold a colon-separated list.
var envLanguage = []string{"RELKIT_LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

var messages *gotext.Locale

// Init selects the message language and returns the catalog it picked:
// "de_DE" uses the "de" catalog when there is no "de_DE" one. An empty lang
// is taken from the environment. English, C and POSIX select untranslated
// output and return "".
func Init(lang string) string {
	if lang == "" {
		lang = FromEnv()
	}
	lang = match(normalize(lang))
	if lang == "" || lang == "en" || strings.HasPrefix(lang, "en_") {
		messages = nil
		return ""
	}

	messages = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	messages.AddDomain(domain)
	messages.SetDomain(domain)
	return lang
}

// FromEnv returns the first usable language from the environment, or "".
func FromEnv() string {
	for _, env := range envLanguage {
		val := os.Getenv(env)
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if val = normalize(val); val != "" {
			return val
		}
	}
	return ""
}

// normalize drops the encoding and modifier ("de_DE.UTF-8@euro" is
// "de_DE"). C and POSIX mean no language.
func normalize(lang string) string {
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "C" || lang == "POSIX" {
		return ""
	}
	return lang
}

// match returns the embedded catalog for lang, falling back from
// language_REGION to language. Unknown languages are returned unchanged.
func match(lang string) string {
	base, _, _ := strings.Cut(lang, "_")
	fallback := ""
	for _, l := range Available() {
		switch l {
		case lang:
			return l
		case base:
			fallback = l
		}
	}
	if fallback != "" {
		return fallback
	}
	return lang
}

// Available lists the languages relkit ships messages for.
func Available() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			langs = append(langs, e.Name())
		}
	}
	sort.Strings(langs)
	return langs
}

// T translates msgid.
func T(msgid string) string {
	if messages == nil {
		return msgid
	}
	return messages.Get(msgid)
}

// Count translates a message about n things and formats n into it, e.g.
// Count("%d language", "%d languages", 3) is "3 languages".
func Count(singular, plural string, n int) string {
	if messages == nil {
		if n == 1 {
			return fmt.Sprintf(singular, n)
		}
		return fmt.Sprintf(plural, n)
	}
	return messages.GetN(singular, plural, n, n)
}
