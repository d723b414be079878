package splitter

import "strings"

// ContentType routes an exhibit to the processor that can read it.
type ContentType string

const (
	ContentTable             ContentType = "table"
	ContentLegalDescriptions ContentType = "legal_descriptions"
	ContentImage             ContentType = "image"
	ContentNarrative         ContentType = "narrative"
)

// ExhibitMarkers are the header phrases that signal the start of an exhibit
// section. Evaluated in order; the first phrase found in a page header wins,
// so more specific labels come before generic ones within each group.
var ExhibitMarkers = []string{
	// Standard exhibit labels
	"EXHIBIT A",
	"EXHIBIT B",
	"EXHIBIT C",
	"EXHIBIT D",
	"EXHIBIT E",
	"EXHIBIT 1",
	"EXHIBIT 2",
	"EXHIBIT 3",
	// Schedule variations
	"SCHEDULE OF LEASES",
	"SCHEDULE 1",
	"SCHEDULE 2",
	"SCHEDULE A",
	"SCHEDULE B",
	"LEASE SCHEDULE",
	"SCHEDULE OF LANDS",
	// Attachment language
	"ATTACHED HERETO",
	"ATTACHMENT A",
	"ATTACHMENT 1",
	// Description headers
	"DESCRIPTION OF LANDS",
	"LEGAL DESCRIPTION",
	"PROPERTY DESCRIPTION",
	// Oil & gas specific
	"SCHEDULE OF INTERESTS",
	"TRACT SCHEDULE",
	"WELL SCHEDULE",
	"UNIT SCHEDULE",
}

// Indicator vocabularies for classifying an exhibit's content type. The
// category order below is a deliberate tie-break: many real headers contain
// both table and legal-description vocabulary ("SCHEDULE OF LANDS"), and
// the table processors handle those better.
var (
	tableIndicators = []string{
		"SCHEDULE",
		"LEASES",
		"TRACT",
		"INTERESTS",
		"WELLS",
		"UNITS",
		"LESSOR",
		"LESSEE",
	}

	legalDescIndicators = []string{
		"LEGAL DESCRIPTION",
		"LANDS",
		"PROPERTY",
		"SECTION",
		"TOWNSHIP",
		"RANGE",
		"QUARTER",
		"METES AND BOUNDS",
	}

	imageIndicators = []string{
		"PLAT",
		"MAP",
		"SURVEY",
		"DRAWING",
		"DIAGRAM",
	}
)

// Classify decides an exhibit's content type from its marker and the OCR
// text of its page header. Categories are checked in fixed order: table,
// legal descriptions, image; anything else is narrative.
func Classify(marker, headerText string) ContentType {
	m := strings.ToUpper(marker)
	t := strings.ToUpper(headerText)

	match := func(indicators []string) bool {
		for _, ind := range indicators {
			if strings.Contains(m, ind) || strings.Contains(t, ind) {
				return true
			}
		}
		return false
	}

	switch {
	case match(tableIndicators):
		return ContentTable
	case match(legalDescIndicators):
		return ContentLegalDescriptions
	case match(imageIndicators):
		return ContentImage
	default:
		return ContentNarrative
	}
}

// continuationSuffixes are stripped to recover the base marker, so that
// "EXHIBIT A (CONTINUED)" folds into the same region as "EXHIBIT A". The
// bare "CONTINUED" goes last; it is a substring of the decorated forms.
var continuationSuffixes = []string{
	"(CONTINUED)",
	"(CONT.)",
	"(CONT)",
	"- CONTINUED",
	"CONTINUED",
}

// baseMarker strips continuation decorations from a marker.
func baseMarker(marker string) string {
	m := strings.ToUpper(strings.TrimSpace(marker))
	for _, suffix := range continuationSuffixes {
		if strings.Contains(m, suffix) {
			m = strings.TrimSpace(strings.ReplaceAll(m, suffix, ""))
		}
	}
	return m
}
