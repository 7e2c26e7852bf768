// Package lang provides guild-facing message lookup. Dictionaries are
// flat JSON files keyed with dot notation ("music.errors.no_results")
// and support {name} placeholder interpolation.
package lang

import (
	"embed"
	"encoding/json"
	"log"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

const DefaultLanguage = "en"

var (
	mu    sync.Mutex
	cache = map[string]map[string]string{}
)

// Supported returns the language codes the bot ships dictionaries for.
func Supported() []string {
	return []string{"en", "es"}
}

// IsSupported reports whether code has a dictionary.
func IsSupported(code string) bool {
	for _, l := range Supported() {
		if l == code {
			return true
		}
	}
	return false
}

// T looks up key in the dictionary for language code and interpolates
// {placeholder} variables. Unknown languages fall back to English;
// unknown keys return the key itself so a missing entry is visible
// instead of fatal.
func T(code, key string, vars map[string]string) string {
	dict := load(code)
	text, ok := dict[key]
	if !ok {
		if code != DefaultLanguage {
			return T(DefaultLanguage, key, vars)
		}
		return key
	}
	for k, v := range vars {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}

func load(code string) map[string]string {
	if !IsSupported(code) {
		code = DefaultLanguage
	}

	mu.Lock()
	defer mu.Unlock()

	if dict, ok := cache[code]; ok {
		return dict
	}

	data, err := localeFS.ReadFile("locales/" + code + ".json")
	if err != nil {
		log.Printf("[ERR] Failed to read locale %s: %v", code, err)
		cache[code] = map[string]string{}
		return cache[code]
	}

	dict := map[string]string{}
	if err := json.Unmarshal(data, &dict); err != nil {
		log.Printf("[ERR] Failed to parse locale %s: %v", code, err)
	}
	cache[code] = dict
	return dict
}
