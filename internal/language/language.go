package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

type entry struct {
	code2   string
	code3   string
	alt3    string // bibliographic form, e.g. "fre"
	display string
}

var languages = []entry{
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"de", "deu", "ger", "German"},
	{"it", "ita", "", "Italian"},
	{"pt", "por", "", "Portuguese"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"zh", "cmn", "zho", "Chinese"},
	{"ru", "rus", "", "Russian"},
	{"uk", "ukr", "", "Ukrainian"},
	{"ar", "arb", "ara", "Arabic"},
	{"hi", "hin", "", "Hindi"},
	{"nl", "nld", "dut", "Dutch"},
	{"pl", "pol", "", "Polish"},
	{"sv", "swe", "", "Swedish"},
	{"da", "dan", "", "Danish"},
	{"no", "nob", "nor", "Norwegian"},
	{"fi", "fin", "", "Finnish"},
	{"tr", "tur", "", "Turkish"},
	{"vi", "vie", "", "Vietnamese"},
	{"id", "ind", "", "Indonesian"},
	{"he", "heb", "", "Hebrew"},
	{"el", "ell", "gre", "Greek"},
	{"cs", "ces", "cze", "Czech"},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byName  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byName = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		byName[strings.ToLower(e.display)] = e
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	return byName[code]
}

// ToISO2 converts a recognized language code or English name to ISO 639-1.
// Unknown 2-letter codes pass through; anything else yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Detection is the result of identifying the language of a transcript.
type Detection struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Reliable   bool    `json:"reliable"`
}

// Label renders the detection for display, e.g. "English (en)".
func (d Detection) Label() string {
	if d.Code == "" {
		return "Unknown"
	}
	label := d.Name + " (" + d.Code + ")"
	if !d.Reliable {
		label += "?"
	}
	return label
}

// Detect identifies the dominant language of text. Empty text yields a zero Detection.
func Detect(text string) Detection {
	if strings.TrimSpace(text) == "" {
		return Detection{}
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	if code == "" {
		return Detection{}
	}
	name := info.Lang.String()
	if e := lookup(code); e != nil {
		name = e.display
	}
	return Detection{
		Code:       ToISO2(code),
		Name:       name,
		Confidence: info.Confidence,
		Reliable:   info.IsReliable(),
	}
}
