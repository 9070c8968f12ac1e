// Package address extracts city and state from free-text US postal addresses.
package address

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnparseable is returned by Tag when no place or state can be found.
var ErrUnparseable = eris.New("address: unparseable")

// Components are the labeled parts of a tagged address. StateName holds the
// canonical USPS code when the state was recognized.
type Components struct {
	AddressNumber string `json:"address_number,omitempty"`
	StreetName    string `json:"street_name,omitempty"`
	PlaceName     string `json:"place_name,omitempty"`
	StateName     string `json:"state_name,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`
}

// Tagger labels the parts of a raw address.
type Tagger func(raw string) (Components, error)

var countrySegments = map[string]bool{
	"us": true, "usa": true, "u.s.": true, "u.s.a.": true,
	"united states": true, "united states of america": true,
}

// Tag splits a comma-separated address, finds the right-most segment that
// carries a state (name or code, optionally followed by a ZIP) and takes the
// place name from the words before it or from the preceding segment.
func Tag(raw string) (Components, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.ContainsFunc(raw, unicode.IsLetter) {
		return Components{}, ErrUnparseable
	}

	segments := splitSegments(raw)
	for len(segments) > 0 && countrySegments[strings.ToLower(segments[len(segments)-1])] {
		segments = segments[:len(segments)-1]
	}
	if len(segments) == 0 {
		return Components{}, ErrUnparseable
	}

	var c Components
	stateIdx := -1
	for i := len(segments) - 1; i >= 0; i-- {
		place, state, zip, ok := parseStateSegment(segments[i])
		if !ok {
			continue
		}
		stateIdx = i
		c.StateName = state
		c.ZipCode = zip
		c.PlaceName = place
		break
	}

	streetEnd := len(segments)
	switch {
	case stateIdx >= 0 && c.PlaceName != "":
		streetEnd = stateIdx
	case stateIdx > 0 && !startsWithDigit(segments[stateIdx-1]):
		c.PlaceName = segments[stateIdx-1]
		streetEnd = stateIdx - 1
	case stateIdx >= 0:
		streetEnd = stateIdx
	case len(segments) >= 2 && isPlaceLike(segments[len(segments)-1]):
		c.PlaceName = segments[len(segments)-1]
		streetEnd = len(segments) - 1
	}

	if c.PlaceName == "" && c.StateName == "" {
		return Components{}, ErrUnparseable
	}
	c.PlaceName = normalizePlace(c.PlaceName)

	if streetEnd > 0 {
		number, street := splitStreet(segments[0])
		c.AddressNumber = number
		c.StreetName = street
	}
	return c, nil
}

// Resolve returns the city and state of a raw address. Both are empty when
// the address is absent or cannot be parsed; it never fails.
func Resolve(raw string) (city, state string) {
	city, state, _ = Lookup(Tag, raw)
	return city, state
}

// Lookup runs tag over raw and returns the place name and canonical state.
// Empty input is not an error. A failing or panicking tagger yields empty
// city and state together with the error.
func Lookup(tag Tagger, raw string) (city, state string, err error) {
	if strings.TrimSpace(raw) == "" {
		return "", "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("address: tagger panicked", zap.String("address", raw), zap.Any("panic", r))
			city, state = "", ""
			err = eris.Wrapf(ErrUnparseable, "tagger panic: %v", r)
		}
	}()

	c, err := tag(raw)
	if err != nil {
		return "", "", eris.Wrapf(err, "address: tag %q", raw)
	}
	return strings.TrimSpace(c.PlaceName), StateCode(c.StateName), nil
}

func splitSegments(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseStateSegment looks for a state within seg such that nothing but an
// optional ZIP follows it. Words before the state become the place name.
func parseStateSegment(seg string) (place, state, zip string, ok bool) {
	fields := strings.Fields(seg)
	for k := 0; k < len(fields); k++ {
		for w := min(maxStateWords, len(fields)-k); w >= 1; w-- {
			rest := fields[k+w:]
			switch {
			case len(rest) == 0:
			case len(rest) == 1 && isZipCode(rest[0]):
				zip = rest[0]
			default:
				continue
			}
			code, matched := matchState(fields[k:k+w], zip != "")
			if !matched {
				zip = ""
				continue
			}
			return strings.Join(fields[:k], " "), code, zip, true
		}
	}
	return "", "", "", false
}

// matchState recognizes a full state name of any case, or a two-letter code
// written in uppercase. A lowercase code is accepted only before a ZIP.
func matchState(words []string, zipFollows bool) (string, bool) {
	joined := strings.ToLower(strings.TrimSuffix(strings.Join(words, " "), "."))
	if abbr, ok := stateToAbbr[joined]; ok {
		return strings.ToUpper(abbr), true
	}
	if len(words) != 1 || len(joined) != 2 {
		return "", false
	}
	if _, ok := abbrToState[joined]; !ok {
		return "", false
	}
	token := strings.TrimSuffix(words[0], ".")
	if token != strings.ToUpper(token) && !zipFollows {
		return "", false
	}
	return strings.ToUpper(joined), true
}

func isZipCode(s string) bool {
	base, ext, hasExt := strings.Cut(s, "-")
	if len(base) != 5 || !allDigits(base) {
		return false
	}
	return !hasExt || (len(ext) == 4 && allDigits(ext))
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func isPlaceLike(s string) bool {
	return !strings.ContainsFunc(s, unicode.IsDigit) && strings.ContainsFunc(s, unicode.IsLetter)
}

func splitStreet(seg string) (number, street string) {
	fields := strings.Fields(seg)
	if len(fields) == 0 {
		return "", ""
	}
	if startsWithDigit(fields[0]) {
		return fields[0], strings.Join(fields[1:], " ")
	}
	return "", strings.Join(fields, " ")
}

// normalizePlace title-cases place names written entirely in one case and
// leaves mixed-case names such as "McAllen" alone.
func normalizePlace(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == strings.ToUpper(s) || s == strings.ToLower(s) {
		return cases.Title(language.AmericanEnglish).String(s)
	}
	return s
}
