// Package extract obtains structured metadata from a document body through
// a large-model extraction provider.
//
// The splitter's body sub-document (3-15 narrative pages) goes to the
// provider with a fixed extraction instruction; the provider returns JSON
// which is fence-stripped, schema-validated, and decoded into
// [DocumentExtraction]. The normalizer consumes the party names and
// legal-description fields downstream.
package extract

import "time"

// PartyInfo is one grantor/grantee/assignor/assignee as written.
type PartyInfo struct {
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Role       string `json:"role,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
}

// PartiesInfo holds both sides of the conveyance.
type PartiesInfo struct {
	Grantors []PartyInfo `json:"grantors,omitempty"`
	Grantees []PartyInfo `json:"grantees,omitempty"`
}

// DatesInfo carries the document's dates as written, normally YYYY-MM-DD.
// Use ParseDate to interpret a field.
type DatesInfo struct {
	Execution  string `json:"execution,omitempty"`
	Recording  string `json:"recording,omitempty"`
	Effective  string `json:"effective,omitempty"`
	Expiration string `json:"expiration,omitempty"`
}

// RecordingInfo is the county filing reference.
type RecordingInfo struct {
	Book            string `json:"book,omitempty"`
	Page            string `json:"page,omitempty"`
	DocumentNumber  string `json:"document_number,omitempty"`
	ReceptionNumber string `json:"reception_number,omitempty"`
	County          string `json:"county,omitempty"`
	State           string `json:"state,omitempty"`
}

// InterestsInfo describes what the instrument conveys and reserves.
type InterestsInfo struct {
	Conveyed         string `json:"conveyed,omitempty"`
	ConveyedFraction string `json:"conveyed_fraction,omitempty"`
	Reserved         string `json:"reserved,omitempty"`
	ReservedFraction string `json:"reserved_fraction,omitempty"`
	InterestType     string `json:"interest_type,omitempty"`
}

// DepthSeveranceInfo details a depth-severance clause.
type DepthSeveranceInfo struct {
	HasDepthSeverance bool   `json:"has_depth_severance"`
	ShallowDepth      string `json:"shallow_depth,omitempty"`
	DeepDepth         string `json:"deep_depth,omitempty"`
	Formation         string `json:"formation,omitempty"`
	Description       string `json:"description,omitempty"`
}

// ClausesInfo flags the clauses that matter to title analysis.
type ClausesInfo struct {
	PughClause                       bool                `json:"pugh_clause"`
	PughDescription                  string              `json:"pugh_description,omitempty"`
	DepthSeverance                   *DepthSeveranceInfo `json:"depth_severance,omitempty"`
	ContinuousDevelopment            bool                `json:"continuous_development"`
	ContinuousDevelopmentDescription string              `json:"continuous_development_description,omitempty"`
	SurfaceDamages                   bool                `json:"surface_damages"`
	PoolingUnitization               bool                `json:"pooling_unitization"`
	OtherClauses                     []string            `json:"other_clauses,omitempty"`
}

// LeaseTermsInfo holds lease-only terms.
type LeaseTermsInfo struct {
	PrimaryTerm     string `json:"primary_term,omitempty"`
	RoyaltyFraction string `json:"royalty_fraction,omitempty"`
	BonusAmount     string `json:"bonus_amount,omitempty"`
	DelayRental     string `json:"delay_rental,omitempty"`
	ShutInRoyalty   string `json:"shut_in_royalty,omitempty"`
}

// ExhibitReference notes an attached exhibit without extracting it.
type ExhibitReference struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ExhibitType string `json:"exhibit_type,omitempty"`
}

// LegalDescriptionInfo is a legal description found in the body itself.
type LegalDescriptionInfo struct {
	RawDescription string   `json:"raw_description,omitempty"`
	Section        string   `json:"section,omitempty"`
	Township       string   `json:"township,omitempty"`
	Range          string   `json:"range,omitempty"`
	County         string   `json:"county,omitempty"`
	State          string   `json:"state,omitempty"`
	AliquotParts   []string `json:"aliquot_parts,omitempty"`
	Acres          float64  `json:"acres,omitempty"`
}

// ConfidenceScores report extraction quality, each in [0, 1].
type ConfidenceScores struct {
	Overall       float64 `json:"overall"`
	Parties       float64 `json:"parties"`
	Dates         float64 `json:"dates"`
	RecordingInfo float64 `json:"recording_info"`
	Interests     float64 `json:"interests"`
}

// DocumentExtraction is the complete structured result for one body.
type DocumentExtraction struct {
	DocumentType  string `json:"document_type"`
	DocumentTitle string `json:"document_title,omitempty"`

	Parties       PartiesInfo   `json:"parties"`
	Dates         DatesInfo     `json:"dates"`
	RecordingInfo RecordingInfo `json:"recording_info"`
	Interests     InterestsInfo `json:"interests"`

	Clauses    ClausesInfo     `json:"clauses"`
	LeaseTerms *LeaseTermsInfo `json:"lease_terms,omitempty"`

	LegalDescription *LegalDescriptionInfo `json:"legal_description,omitempty"`

	ExhibitReferences []ExhibitReference `json:"exhibit_references,omitempty"`

	Confidence      ConfidenceScores `json:"confidence"`
	ExtractionNotes []string         `json:"extraction_notes,omitempty"`
}

// dateFormats are the written forms that show up in recorded instruments.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate interprets a date string from an extraction. Returns the zero
// time and false when the value is empty or in no recognized format; an
// unparseable date is missing data, not an error.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
