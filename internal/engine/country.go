package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// countryAliases maps canonicalized colloquial names to the canonicalized
// preferred name so spellings like "Ivory Coast" and "Côte d'Ivoire" merge
// into one map key
var countryAliases = map[string]string{
	"drc":                          "democraticrepublicofthecongo",
	"democraticrepublicofcongo":    "democraticrepublicofthecongo",
	"congokinshasa":                "democraticrepublicofthecongo",
	"congobrazzaville":             "republicofthecongo",
	"ivorycoast":                   "cotedivoire",
	"usa":                          "unitedstates",
	"us":                           "unitedstates",
	"unitedstatesofamerica":        "unitedstates",
	"uk":                           "unitedkingdom",
	"greatbritain":                 "unitedkingdom",
	"uae":                          "unitedarabemirates",
	"southkorea":                   "republicofkorea",
	"northkorea":                   "democraticpeoplesrepublicofkorea",
	"russia":                       "russianfederation",
	"burma":                        "myanmar",
	"capeverde":                    "caboverde",
	"holland":                      "netherlands",
	"czechia":                      "czechrepublic",
	"eswatini":                     "swaziland",
	"timorleste":                   "easttimor",
	"vaticancity":                  "holysee",
	"tanzania":                     "unitedrepublicoftanzania",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CanonicalCountry normalizes a raw country name into its canonical key:
// Unicode-normalize, strip diacritics, drop non-alphanumerics, lowercase,
// then apply the alias table
func CanonicalCountry(name string) string {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		s = name
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	key := b.String()
	if alias, ok := countryAliases[key]; ok {
		return alias
	}
	return key
}
