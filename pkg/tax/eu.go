package tax

import "strings"

// euCountries holds ISO 3166-1 alpha-2 codes of EU member states.
// EL is the code VIES uses for Greece.
var euCountries = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "CY": {}, "CZ": {}, "DE": {}, "DK": {},
	"EE": {}, "EL": {}, "ES": {}, "FI": {}, "FR": {}, "GR": {}, "HR": {},
	"HU": {}, "IE": {}, "IT": {}, "LT": {}, "LU": {}, "LV": {}, "MT": {},
	"NL": {}, "PL": {}, "PT": {}, "RO": {}, "SE": {}, "SI": {}, "SK": {},
}

// IsEU reports whether country is an EU member state. The lookup is case-insensitive.
func IsEU(country string) bool {
	if country == "" {
		return false
	}
	_, ok := euCountries[strings.ToUpper(country)]
	return ok
}
