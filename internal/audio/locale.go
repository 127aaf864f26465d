package audio

import "strings"

// Regional accents selected by Google top-level domain, as served by
// translate.google.<tld>
var accentRegions = map[string]map[string]string{
	"en": {
		"com":    "US",
		"us":     "US",
		"co.uk":  "GB",
		"com.au": "AU",
		"ca":     "CA",
		"co.in":  "IN",
		"ie":     "IE",
		"co.za":  "ZA",
		"com.ng": "NG",
	},
	"fr": {
		"fr": "FR",
		"ca": "CA",
	},
	"pt": {
		"com.br": "BR",
		"pt":     "PT",
	},
	"es": {
		"es":     "ES",
		"com.mx": "MX",
		"us":     "US",
	},
	"zh": {
		"com": "CN",
	},
}

// Locale converts a language code and accent TLD into a BCP 47 tag such
// as "en-GB". Unknown combinations return the bare language code.
func Locale(lang, accent string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = "en"
	}
	if strings.Contains(lang, "-") {
		return lang
	}

	region, ok := accentRegions[lang][strings.ToLower(strings.TrimSpace(accent))]
	if !ok {
		return lang
	}
	return lang + "-" + region
}
