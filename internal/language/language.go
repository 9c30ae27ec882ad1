package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// named lists the languages also matched by their English name.
var named = []language.Tag{
	language.English, language.Spanish, language.French, language.German,
	language.Italian, language.Portuguese, language.Japanese, language.Korean,
	language.Chinese, language.Russian, language.Arabic, language.Hindi,
	language.Dutch, language.Polish, language.Swedish, language.Danish,
	language.Norwegian, language.Finnish, language.Ukrainian, language.Turkish,
}

func lookup(code string) (language.Base, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Base{}, false
	}
	if tag, err := language.Parse(code); err == nil && tag != language.Und {
		if base, conf := tag.Base(); conf != language.No {
			return base, true
		}
	}
	names := display.English.Languages()
	for _, tag := range named {
		if strings.EqualFold(names.Name(tag), code) {
			base, _ := tag.Base()
			return base, true
		}
	}
	return language.Base{}, false
}

// Known reports whether code names a recognized language.
func Known(code string) bool {
	_, ok := lookup(code)
	return ok
}

// ToISO2 converts any recognized language code or name to ISO 639-1.
// Returns empty string for unrecognized input.
func ToISO2(code string) string {
	base, ok := lookup(code)
	if !ok {
		return ""
	}
	return base.String()
}

// ToISO3 converts any recognized language code or name to ISO 639-2.
// Returns "und" for unrecognized input.
func ToISO3(code string) string {
	base, ok := lookup(code)
	if !ok {
		return "und"
	}
	return base.ISO3()
}

// DisplayName returns the English name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	base, ok := lookup(code)
	if !ok {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	return display.English.Languages().Name(base)
}
