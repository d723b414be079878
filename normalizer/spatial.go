package normalizer

import (
	"regexp"
	"sort"
	"strings"
)

// SpatialKey is the parsed, canonical identity of a land tract.
// Keys are views derived from a legal description; they carry no
// independent state and are immutable once constructed.
type SpatialKey struct {
	State    string // two-letter code, e.g. "ND"
	County   string // uppercase name, e.g. "WILLIAMS"
	Section  string // numeric string, e.g. "15"
	Township string // number + N/S, e.g. "154N"
	Range    string // number + E/W, e.g. "97W"
	Aliquot  string // optional, e.g. "NW4" or compound "NE4-NW4"
	Key      string // composite STATE-COUNTY-SECTION-TOWNSHIP-RANGE[-ALIQUOT]
}

// composeKey builds the composite key string from the components.
func composeKey(state, county, section, township, rng, aliquot string) string {
	key := state + "-" + county + "-" + section + "-" + township + "-" + rng
	if aliquot != "" {
		key += "-" + aliquot
	}
	return key
}

// stateNames maps full state names to their two-letter abbreviations.
// Evaluated in order: first name contained in the text wins, so the
// list order is part of the contract (e.g. OKLAHOMA is checked before
// TEXAS, which matters for "Texas County, Oklahoma").
var stateNames = []struct {
	Name   string
	Abbrev string
}{
	{"ALABAMA", "AL"}, {"ALASKA", "AK"}, {"ARIZONA", "AZ"}, {"ARKANSAS", "AR"},
	{"CALIFORNIA", "CA"}, {"COLORADO", "CO"}, {"CONNECTICUT", "CT"}, {"DELAWARE", "DE"},
	{"FLORIDA", "FL"}, {"GEORGIA", "GA"}, {"HAWAII", "HI"}, {"IDAHO", "ID"},
	{"ILLINOIS", "IL"}, {"INDIANA", "IN"}, {"IOWA", "IA"}, {"KANSAS", "KS"},
	{"KENTUCKY", "KY"}, {"LOUISIANA", "LA"}, {"MAINE", "ME"}, {"MARYLAND", "MD"},
	{"MASSACHUSETTS", "MA"}, {"MICHIGAN", "MI"}, {"MINNESOTA", "MN"}, {"MISSISSIPPI", "MS"},
	{"MISSOURI", "MO"}, {"MONTANA", "MT"}, {"NEBRASKA", "NE"}, {"NEVADA", "NV"},
	{"NEW HAMPSHIRE", "NH"}, {"NEW JERSEY", "NJ"}, {"NEW MEXICO", "NM"}, {"NEW YORK", "NY"},
	{"NORTH CAROLINA", "NC"}, {"NORTH DAKOTA", "ND"}, {"OHIO", "OH"}, {"OKLAHOMA", "OK"},
	{"OREGON", "OR"}, {"PENNSYLVANIA", "PA"}, {"RHODE ISLAND", "RI"}, {"SOUTH CAROLINA", "SC"},
	{"SOUTH DAKOTA", "SD"}, {"TENNESSEE", "TN"}, {"TEXAS", "TX"}, {"UTAH", "UT"},
	{"VERMONT", "VT"}, {"VIRGINIA", "VA"}, {"WASHINGTON", "WA"}, {"WEST VIRGINIA", "WV"},
	{"WISCONSIN", "WI"}, {"WYOMING", "WY"},
}

// stateAbbrevPattern matches a two-letter abbreviation only when delimited
// on both sides (leading comma/whitespace, trailing end/comma/digit). This
// avoids matching "IN" inside "IN OKLAHOMA".
var stateAbbrevPattern = regexp.MustCompile(
	`(?:,\s*|\s+)(AL|AK|AZ|AR|CA|CO|CT|DE|FL|GA|HI|ID|IL|IA|KS|KY|LA|ME|MD|` +
		`MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|` +
		`TN|TX|UT|VT|VA|WA|WV|WI|WY)(?:\s*$|\s*,|\s+\d)`)

// extractState returns the two-letter state code found in the uppercased
// text, or "" when none is present. Full state names are tried before
// abbreviations; a full name is the more specific signal.
func extractState(text string) string {
	for _, s := range stateNames {
		if strings.Contains(text, s.Name) {
			return s.Abbrev
		}
	}
	if m := stateAbbrevPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// countyPattern captures the one-or-two-word token immediately preceding
// COUNTY or PARISH (the Louisiana convention).
var countyPattern = regexp.MustCompile(`(\w+(?:\s+\w+)?)\s+(?:COUNTY|PARISH)`)

// extractCounty returns the county (or parish) name from the uppercased
// text, or "" when none is present.
func extractCounty(text string) string {
	if m := countyPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// strPattern is one named alternative of the section/township/range grammar.
// The five alternatives are tried in declaration order; the first that
// matches fully wins. Each extract func returns the normalized
// (section, township, range) triple; township and range are normalized to
// {number}{N|S} / {number}{E|W} with a single-letter directional suffix.
type strPattern struct {
	name    string
	re      *regexp.Regexp
	extract func(text string, m []string) (section, township, rng string)
}

var strPatterns = []strPattern{
	{
		// "SECTION 15, TOWNSHIP 154 NORTH, RANGE 97 WEST"
		name: "verbose",
		re: regexp.MustCompile(`SECTION\s+(\d+).*?` +
			`TOWNSHIP\s+(\d+)\s*(N|NORTH|S|SOUTH).*?` +
			`RANGE\s+(\d+)\s*(W|WEST|E|EAST)`),
		extract: func(_ string, m []string) (string, string, string) {
			return m[1], m[2] + m[3][:1], m[4] + m[5][:1]
		},
	},
	{
		// "SEC 14-3N-4W" or "S14-T3N-R4W" and variations
		name: "compact",
		re:   regexp.MustCompile(`S(?:EC(?:TION)?)?\s*(\d+)[-,\s]+T?(\d+[NS])[-,\s]+R?(\d+[EW])`),
		extract: func(_ string, m []string) (string, string, string) {
			return m[1], m[2], m[3]
		},
	},
	{
		// "T154N-R97W, SECTION 15" (reversed order)
		name: "reversed",
		re:   regexp.MustCompile(`T(\d+[NS])[-,\s]+R(\d+[EW]).*?S(?:EC(?:TION)?)?\s*(\d+)`),
		extract: func(_ string, m []string) (string, string, string) {
			return m[3], m[1], m[2]
		},
	},
	{
		// "T3N R4W" without an adjacent section; the section number is
		// searched for independently elsewhere in the text.
		name: "township-range",
		re:   regexp.MustCompile(`T(\d+[NS])[-,\s]+R(\d+[EW])`),
		extract: func(text string, m []string) (string, string, string) {
			if sec := sectionOnlyPattern.FindStringSubmatch(text); sec != nil {
				return sec[1], m[1], m[2]
			}
			return "", "", ""
		},
	},
	{
		// fully compact "15-154N-97W"
		name: "numeric",
		re:   regexp.MustCompile(`(\d+)-(\d+[NS])-(\d+[EW])`),
		extract: func(_ string, m []string) (string, string, string) {
			return m[1], m[2], m[3]
		},
	},
}

var sectionOnlyPattern = regexp.MustCompile(`S(?:EC(?:TION)?)?\s*(\d+)`)

// extractSectionTownshipRange tries the five pattern families in order and
// returns the first complete match. All empty strings is not an error; it
// is a "cannot determine" result the caller must treat as missing data.
func extractSectionTownshipRange(text string) (section, township, rng string) {
	for _, p := range strPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		s, t, r := p.extract(text, m)
		if s != "" && t != "" && r != "" {
			return s, t, r
		}
	}
	return "", "", ""
}

// aliquotFractionPattern matches fractional notations like NW/4, S/2, NE4.
// The slash is optional; the longer compound directions are listed first.
var aliquotFractionPattern = regexp.MustCompile(`((?:NE|NW|SE|SW|N|S|E|W))\s*[/\\]?\s*([24])`)

// spelledAliquots maps spelled-out forms to canonical aliquot parts.
var spelledAliquots = []struct {
	re   *regexp.Regexp
	part string
}{
	{regexp.MustCompile(`NORTH\s*EAST\s*(?:QUARTER|1/4)`), "NE4"},
	{regexp.MustCompile(`NORTH\s*WEST\s*(?:QUARTER|1/4)`), "NW4"},
	{regexp.MustCompile(`SOUTH\s*EAST\s*(?:QUARTER|1/4)`), "SE4"},
	{regexp.MustCompile(`SOUTH\s*WEST\s*(?:QUARTER|1/4)`), "SW4"},
	{regexp.MustCompile(`NORTH\s*(?:HALF|1/2)`), "N2"},
	{regexp.MustCompile(`SOUTH\s*(?:HALF|1/2)`), "S2"},
	{regexp.MustCompile(`EAST\s*(?:HALF|1/2)`), "E2"},
	{regexp.MustCompile(`WEST\s*(?:HALF|1/2)`), "W2"},
}

// extractAliquot scans the uppercased text for aliquot parts and returns a
// deterministic compound: parts are deduplicated and joined in sorted order
// with a hyphen ("NE4-NW4"). Returns "" when no part is found. Aliquot
// extraction is independent of which section/township/range pattern matched.
func extractAliquot(text string) string {
	seen := make(map[string]bool)
	var parts []string

	add := func(part string) {
		if !seen[part] {
			seen[part] = true
			parts = append(parts, part)
		}
	}

	for _, m := range aliquotFractionPattern.FindAllStringSubmatch(text, -1) {
		add(m[1] + m[2])
	}
	for _, sp := range spelledAliquots {
		if sp.re.MatchString(text) {
			add(sp.part)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	sort.Strings(parts)
	return strings.Join(parts, "-")
}

// GenerateSpatialKey converts a raw legal description into a canonical
// SpatialKey. It returns nil when any of the five required components
// (state, county, section, township, range) cannot be determined - a key
// must be fully qualified to be usable as a join key, so partial keys are
// never emitted. The aliquot is optional and appended only when present.
func GenerateSpatialKey(legalDesc string) *SpatialKey {
	if strings.TrimSpace(legalDesc) == "" {
		return nil
	}

	text := strings.ToUpper(strings.TrimSpace(legalDesc))

	state := extractState(text)
	county := extractCounty(text)
	section, township, rng := extractSectionTownshipRange(text)
	aliquot := extractAliquot(text)

	if state == "" || county == "" || section == "" || township == "" || rng == "" {
		return nil
	}

	return &SpatialKey{
		State:    state,
		County:   county,
		Section:  section,
		Township: township,
		Range:    rng,
		Aliquot:  aliquot,
		Key:      composeKey(state, county, section, township, rng, aliquot),
	}
}

// SectionKey returns the key of the enclosing full section (the spatial
// key without the aliquot part), used to aggregate tracts by section.
func (k *SpatialKey) SectionKey() string {
	return composeKey(k.State, k.County, k.Section, k.Township, k.Range, "")
}
