package address

import "strings"

// abbrToState maps lowercase USPS abbreviations to lowercase full names.
var abbrToState = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "co": "colorado", "ct": "connecticut", "de": "delaware",
	"fl": "florida", "ga": "georgia", "hi": "hawaii", "id": "idaho",
	"il": "illinois", "in": "indiana", "ia": "iowa", "ks": "kansas",
	"ky": "kentucky", "la": "louisiana", "me": "maine", "md": "maryland",
	"ma": "massachusetts", "mi": "michigan", "mn": "minnesota", "ms": "mississippi",
	"mo": "missouri", "mt": "montana", "ne": "nebraska", "nv": "nevada",
	"nh": "new hampshire", "nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "oh": "ohio", "ok": "oklahoma",
	"or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"sd": "south dakota", "tn": "tennessee", "tx": "texas", "ut": "utah",
	"vt": "vermont", "va": "virginia", "wa": "washington", "wv": "west virginia",
	"wi": "wisconsin", "wy": "wyoming", "dc": "district of columbia", "pr": "puerto rico",
}

// stateToAbbr maps lowercase full names to lowercase abbreviations.
var stateToAbbr = func() map[string]string {
	m := make(map[string]string, len(abbrToState)+1)
	for abbr, full := range abbrToState {
		m[full] = abbr
	}
	m["washington dc"] = "dc"
	return m
}()

// maxStateWords is the word count of the longest full state name.
const maxStateWords = 3

// StateCode canonicalizes a state abbreviation or full name to its
// uppercase USPS code. Unknown input is returned trimmed and unchanged.
func StateCode(state string) string {
	trimmed := strings.TrimSpace(state)
	lower := strings.ToLower(strings.TrimSuffix(trimmed, "."))
	if lower == "" {
		return ""
	}
	if _, ok := abbrToState[lower]; ok {
		return strings.ToUpper(lower)
	}
	if abbr, ok := stateToAbbr[strings.Join(strings.Fields(lower), " ")]; ok {
		return strings.ToUpper(abbr)
	}
	return trimmed
}

// StateName returns the lowercase full name for a code or name, or "".
func StateName(state string) string {
	code := strings.ToLower(StateCode(state))
	return abbrToState[code]
}

// SameState reports whether a and b name the same state in any form.
func SameState(a, b string) bool {
	ca, cb := StateCode(a), StateCode(b)
	if ca == "" || cb == "" {
		return false
	}
	return strings.EqualFold(ca, cb)
}
