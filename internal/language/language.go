package language

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language/display"

	xlang "golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1
	code3   string // ISO 639-2/T
	alt3    string // ISO 639-2/B where it differs
	display string
}

// Languages WhisperX and the translation prompts see most often. Anything
// else falls through to x/text.
var common = []entry{
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"de", "deu", "ger", "German"},
	{"it", "ita", "", "Italian"},
	{"pt", "por", "", "Portuguese"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"zh", "zho", "chi", "Chinese"},
	{"ru", "rus", "", "Russian"},
	{"ar", "ara", "", "Arabic"},
	{"hi", "hin", "", "Hindi"},
	{"nl", "nld", "dut", "Dutch"},
	{"pl", "pol", "", "Polish"},
	{"sv", "swe", "", "Swedish"},
	{"da", "dan", "", "Danish"},
	{"no", "nor", "", "Norwegian"},
	{"fi", "fin", "", "Finnish"},
}

var index = func() map[string]*entry {
	m := make(map[string]*entry, len(common)*4)
	for i := range common {
		e := &common[i]
		m[e.code2] = e
		m[e.code3] = e
		if e.alt3 != "" {
			m[e.alt3] = e
		}
		m[strings.ToLower(e.display)] = e
	}
	return m
}()

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	return index[code]
}

// parse resolves codes outside the common table, including region-qualified
// tags such as "pt-BR".
func parse(code string) (xlang.Tag, bool) {
	tag, err := xlang.Parse(strings.TrimSpace(code))
	if err != nil || tag == xlang.Und {
		return xlang.Und, false
	}
	return tag, true
}

// ToISO2 converts a language code or English language name to ISO 639-1.
// Unknown 2-letter input passes through; anything else unknown returns "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if tag, ok := parse(code); ok {
		base, _ := tag.Base()
		if iso := base.String(); len(iso) == 2 {
			return iso
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns the English name of a language code. Empty input is
// "Unknown"; unrecognized input is returned upper-cased.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if tag, ok := parse(trimmed); ok {
		if name := display.English.Tags().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// TargetName turns a configured target language into the name used in
// translation prompts. Codes become display names; free-form names are
// title-cased as given.
func TargetName(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if len(trimmed) <= 3 || strings.Contains(trimmed, "-") {
		if tag, ok := parse(trimmed); ok {
			if name := display.English.Tags().Name(tag); name != "" {
				return name
			}
		}
	}
	return cases.Title(xlang.English).String(trimmed)
}

// Matches reports whether two codes name the same base language.
func Matches(a, b string) bool {
	left, right := ToISO2(a), ToISO2(b)
	return left != "" && left == right
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
func ExtractFromTags(tags map[string]string) string {
	for _, key := range []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"} {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}
