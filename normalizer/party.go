package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EntityType classifies the legal form of a party.
type EntityType string

const (
	EntityIndividual         EntityType = "individual"
	EntityLLC                EntityType = "llc"
	EntityCorporation        EntityType = "corporation"
	EntityLimitedPartnership EntityType = "limited_partnership"
	EntityLLP                EntityType = "llp"
	EntityPLLC               EntityType = "pllc"
	EntityCompany            EntityType = "company"
	EntityTrust              EntityType = "trust"
	EntityEstate             EntityType = "estate"
	EntityUnknown            EntityType = "unknown"
)

// NormalizedParty is the canonical identity derived from a written party
// name. The normalized name is a deterministic function of the original;
// the same legal name, however written, must normalize to the same string
// for cross-document identity matching to work.
type NormalizedParty struct {
	OriginalName   string
	NormalizedName string
	EntityType     EntityType
}

// entitySuffixes is the ordered suffix-removal table. Order matters:
// longer/more specific suffixes come first because shorter patterns are
// substrings of longer ones and must not pre-empt them. The et-al/aka/dba
// tail patterns strip everything from the marker to the end of the name.
var entitySuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i),?\s*LIMITED\s+LIABILITY\s+COMPANY$`),
	regexp.MustCompile(`(?i),?\s*LIMITED\s+PARTNERSHIP$`),
	regexp.MustCompile(`(?i),?\s*LIMITED\s+LIABILITY\s+PARTNERSHIP$`),
	regexp.MustCompile(`(?i),?\s*INCORPORATED$`),
	regexp.MustCompile(`(?i),?\s*CORPORATION$`),
	regexp.MustCompile(`(?i),?\s*COMPANY$`),
	regexp.MustCompile(`(?i),?\s*LIMITED$`),
	regexp.MustCompile(`(?i),?\s*L\.?L\.?C\.?$`),
	regexp.MustCompile(`(?i),?\s*LLC\.?$`),
	regexp.MustCompile(`(?i),?\s*L\.?L\.?P\.?$`),
	regexp.MustCompile(`(?i),?\s*LLP\.?$`),
	regexp.MustCompile(`(?i),?\s*L\.?P\.?$`),
	regexp.MustCompile(`(?i),?\s*LP\.?$`),
	regexp.MustCompile(`(?i),?\s*P\.?L\.?L\.?C\.?$`),
	regexp.MustCompile(`(?i),?\s*PLLC\.?$`),
	regexp.MustCompile(`(?i),?\s*INC\.?$`),
	regexp.MustCompile(`(?i),?\s*CORP\.?$`),
	regexp.MustCompile(`(?i),?\s*LTD\.?$`),
	regexp.MustCompile(`(?i),?\s*P\.?C\.?$`),
	regexp.MustCompile(`(?i),?\s*PC\.?$`),
	regexp.MustCompile(`(?i),?\s*CO\.?$`),
	regexp.MustCompile(`(?i),?\s*ET\s+AL\.?$`),
	regexp.MustCompile(`(?i),?\s*ET\s+UX\.?$`),
	regexp.MustCompile(`(?i),?\s*ET\s+VIR\.?$`),
	regexp.MustCompile(`(?i),?\s*A/K/A\s+.*$`),
	regexp.MustCompile(`(?i),?\s*AKA\s+.*$`),
	regexp.MustCompile(`(?i),?\s*F/K/A\s+.*$`),
	regexp.MustCompile(`(?i),?\s*FKA\s+.*$`),
	regexp.MustCompile(`(?i),?\s*N/K/A\s+.*$`),
	regexp.MustCompile(`(?i),?\s*D/B/A\s+.*$`),
	regexp.MustCompile(`(?i),?\s*DBA\s+.*$`),
}

var (
	llcPattern         = regexp.MustCompile(`L\.?L\.?C\.?(\s|$|,)`)
	llcWordPattern     = regexp.MustCompile(`\bLLC\b`)
	lpPattern          = regexp.MustCompile(`L\.?P\.?(\s|$|,)`)
	lpWordPattern      = regexp.MustCompile(`\bLP\b`)
	limitedPartnership = regexp.MustCompile(`LIMITED\s+PARTNERSHIP`)
	llpPattern         = regexp.MustCompile(`L\.?L\.?P\.?(\s|$|,)`)
	llpWordPattern     = regexp.MustCompile(`\bLLP\b`)
	corpPattern        = regexp.MustCompile(`\b(INC|INCORPORATED|CORP|CORPORATION)\b`)
	pllcPattern        = regexp.MustCompile(`P\.?L\.?L\.?C\.?(\s|$|,)`)
	pllcWordPattern    = regexp.MustCompile(`\bPLLC\b`)
	coPattern          = regexp.MustCompile(`\bCO\.(\s|$|,)`)
	companyPattern     = regexp.MustCompile(`COMPANY`)
	trustPattern       = regexp.MustCompile(`\bTRUST\b`)
	estatePattern      = regexp.MustCompile(`\bESTATE\b`)
	individualPattern  = regexp.MustCompile(`\b(ET\s+UX|ET\s+VIR|ET\s+AL)\b`)
	personalName       = regexp.MustCompile(`^[A-Z\s,.'-]+$`)

	punctuation   = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	strayInitial  = regexp.MustCompile(`\b[A-Z]\b`)
)

// DetectEntityType infers the legal form of a party from its written name.
// It must be called on the un-stripped name: the suffix is the primary
// classification signal, so detection has to run before suffix removal.
// Checks run in a fixed priority order, most specific first.
func DetectEntityType(name string) EntityType {
	text := strings.ToUpper(name)

	switch {
	case llcPattern.MatchString(text) || llcWordPattern.MatchString(text):
		return EntityLLC
	case lpPattern.MatchString(text) || lpWordPattern.MatchString(text),
		limitedPartnership.MatchString(text):
		return EntityLimitedPartnership
	case llpPattern.MatchString(text) || llpWordPattern.MatchString(text):
		return EntityLLP
	case corpPattern.MatchString(text):
		return EntityCorporation
	case pllcPattern.MatchString(text) || pllcWordPattern.MatchString(text):
		return EntityPLLC
	// Bare "CO." counts as a company only when "COMPANY" is not also
	// present, which would otherwise be double-counted.
	case coPattern.MatchString(text) && !companyPattern.MatchString(text):
		return EntityCompany
	case trustPattern.MatchString(text):
		return EntityTrust
	case estatePattern.MatchString(text):
		return EntityEstate
	case individualPattern.MatchString(text):
		return EntityIndividual
	}

	// Short names composed only of letters and personal-name punctuation
	// default to individual ("SMITH, JOHN" and the like).
	if personalName.MatchString(text) {
		words := strings.Fields(strings.ReplaceAll(text, ",", " "))
		if len(words) > 0 && len(words) <= 4 {
			return EntityIndividual
		}
	}

	return EntityUnknown
}

// foldDiacritics removes combining marks so that accented names scanned
// from older instruments normalize to plain ASCII forms.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeParty maps a written party name to its canonical form: entity
// suffixes removed, punctuation stripped, whitespace collapsed, stray
// single-letter initials dropped, all uppercase. The function is pure and
// total; an empty or unparseable input yields an empty normalized name and
// EntityUnknown.
func NormalizeParty(name string) NormalizedParty {
	original := strings.TrimSpace(name)
	if original == "" {
		return NormalizedParty{EntityType: EntityUnknown}
	}

	if folded, _, err := transform.String(foldDiacritics, original); err == nil {
		name = folded
	} else {
		name = original
	}
	text := strings.ToUpper(strings.TrimSpace(name))

	entityType := DetectEntityType(text)

	for _, re := range entitySuffixes {
		text = re.ReplaceAllString(text, "")
	}

	text = punctuation.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	// Punctuation removal can leave middle initials stranded as
	// single-letter tokens; drop them and re-collapse.
	text = strayInitial.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	return NormalizedParty{
		OriginalName:   original,
		NormalizedName: text,
		EntityType:     entityType,
	}
}
