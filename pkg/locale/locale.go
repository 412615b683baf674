// Package locale holds the string tables for user-visible engine messages.
// Lookups that miss fall back to the key itself so a missing translation
// degrades to something greppable rather than an empty label.
package locale

import "strings"

var tables = map[string]map[string]string{
	"en": {
		"graph.tide_data_unavailable":   "tide data unavailable",
		"graph.water_level_unavailable": "water level unavailable",
		"graph.no_data_for_day":         "no data for this day",
		"tooltip.height":                "height",
		"tooltip.water_temp":            "water temp",
		"config.title":                  "Display preferences",
	},
	"fr": {
		"graph.tide_data_unavailable":   "données de marée indisponibles",
		"graph.water_level_unavailable": "hauteur d'eau indisponible",
		"graph.no_data_for_day":         "pas de données pour ce jour",
		"tooltip.height":                "hauteur",
		"tooltip.water_temp":            "temp. de l'eau",
		"config.title":                  "Préférences d'affichage",
	},
}

// Lookup returns the translation of key for the given language tag, falling
// back to the key itself if no translation exists. Region subtags are
// ignored ("fr-FR" resolves like "fr").
func Lookup(lang, key string) string {
	base := lang
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		base = lang[:i]
	}
	if table, ok := tables[strings.ToLower(base)]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	return key
}

// Localizer binds Lookup to one language for use as a graph option.
func Localizer(lang string) func(string) string {
	return func(key string) string {
		return Lookup(lang, key)
	}
}
