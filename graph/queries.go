package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// ChainLink is one conveyance in a tract's chain of title.
type ChainLink struct {
	Grantor          string
	Grantee          string
	InterestType     string
	InterestFraction float64
	DocumentType     string
	RecordingDate    string
	RecordingInfo    string
}

// ChainGap is a break between two sequential instruments on the same
// tract where the earlier grantee and the later grantor do not line up.
type ChainGap struct {
	PriorInstrument string
	PriorDate       string
	PriorGrantee    string
	LaterInstrument string
	LaterDate       string
	LaterGrantor    string
}

// OwnershipInterest is a party's computed share of a tract.
type OwnershipInterest struct {
	Owner          string
	NormalizedName string
	Interest       float64
}

// SectionInstrument is one instrument affecting a section, with the
// tracts it covers.
type SectionInstrument struct {
	ID            string
	DocumentType  string
	RecordingInfo string
	RecordingDate string
	Tracts        []string
}

// ChainOfTitle returns every conveyance under instruments covering the
// tract, oldest first.
func (b *Builder) ChainOfTitle(ctx context.Context, spatialKey string) ([]ChainLink, error) {
	result, err := b.run(ctx, `
		MATCH (t:Tract {spatialKey: $tract_key})<-[:COVERS]-(i:Instrument)
		MATCH (grantor:Party)-[c:CONVEYED {instrumentId: i.id}]->(grantee:Party)
		RETURN grantor.name AS grantor,
		       grantee.name AS grantee,
		       c.interestType AS interest_type,
		       c.interestFraction AS interest_fraction,
		       i.documentType AS document_type,
		       toString(i.recordingDate) AS recording_date,
		       i.recordingInfo AS recording_info
		ORDER BY i.recordingDate`,
		map[string]any{"tract_key": spatialKey})
	if err != nil {
		return nil, fmt.Errorf("querying chain of title for %s: %w", spatialKey, err)
	}

	links := make([]ChainLink, 0, len(result.Records))
	for _, record := range result.Records {
		m := record.AsMap()
		links = append(links, ChainLink{
			Grantor:          stringValue(m, "grantor"),
			Grantee:          stringValue(m, "grantee"),
			InterestType:     stringValue(m, "interest_type"),
			InterestFraction: floatValue(m, "interest_fraction"),
			DocumentType:     stringValue(m, "document_type"),
			RecordingDate:    stringValue(m, "recording_date"),
			RecordingInfo:    stringValue(m, "recording_info"),
		})
	}
	return links, nil
}

// InstrumentsForSection returns every instrument touching any tract in
// the section, oldest first.
func (b *Builder) InstrumentsForSection(ctx context.Context, sectionKey string) ([]SectionInstrument, error) {
	result, err := b.run(ctx, `
		MATCH (i:Instrument)-[:COVERS]->(t:Tract)-[:IN_SECTION]->(s:Section {sectionKey: $section_key})
		RETURN DISTINCT i.id AS id,
		       i.documentType AS document_type,
		       i.recordingInfo AS recording_info,
		       toString(i.recordingDate) AS recording_date,
		       collect(t.spatialKey) AS tracts
		ORDER BY recording_date`,
		map[string]any{"section_key": sectionKey})
	if err != nil {
		return nil, fmt.Errorf("querying instruments for section %s: %w", sectionKey, err)
	}

	instruments := make([]SectionInstrument, 0, len(result.Records))
	for _, record := range result.Records {
		m := record.AsMap()
		instruments = append(instruments, SectionInstrument{
			ID:            stringValue(m, "id"),
			DocumentType:  stringValue(m, "document_type"),
			RecordingInfo: stringValue(m, "recording_info"),
			RecordingDate: stringValue(m, "recording_date"),
			Tracts:        stringSliceValue(m, "tracts"),
		})
	}
	return instruments, nil
}

// FindChainGaps returns pairs of sequential instruments on the tract
// whose parties do not connect.
func (b *Builder) FindChainGaps(ctx context.Context, spatialKey string) ([]ChainGap, error) {
	result, err := b.run(ctx, `
		MATCH (t:Tract {spatialKey: $tract_key})
		MATCH (i1:Instrument)-[:COVERS]->(t)<-[:COVERS]-(i2:Instrument)
		WHERE i1.recordingDate < i2.recordingDate
		OPTIONAL MATCH (:Party)-[c1:CONVEYED {instrumentId: i1.id}]->(grantee1:Party)
		OPTIONAL MATCH (grantor2:Party)-[c2:CONVEYED {instrumentId: i2.id}]->(:Party)
		WITH i1, i2, grantee1, grantor2
		WHERE grantee1 IS NULL OR grantor2 IS NULL
		      OR grantee1.normalizedName <> grantor2.normalizedName
		RETURN i1.recordingInfo AS prior_instrument,
		       toString(i1.recordingDate) AS prior_date,
		       grantee1.name AS prior_grantee,
		       i2.recordingInfo AS later_instrument,
		       toString(i2.recordingDate) AS later_date,
		       grantor2.name AS later_grantor
		ORDER BY i1.recordingDate`,
		map[string]any{"tract_key": spatialKey})
	if err != nil {
		return nil, fmt.Errorf("querying chain gaps for %s: %w", spatialKey, err)
	}

	gaps := make([]ChainGap, 0, len(result.Records))
	for _, record := range result.Records {
		m := record.AsMap()
		gaps = append(gaps, ChainGap{
			PriorInstrument: stringValue(m, "prior_instrument"),
			PriorDate:       stringValue(m, "prior_date"),
			PriorGrantee:    stringValue(m, "prior_grantee"),
			LaterInstrument: stringValue(m, "later_instrument"),
			LaterDate:       stringValue(m, "later_date"),
			LaterGrantor:    stringValue(m, "later_grantor"),
		})
	}
	return gaps, nil
}

// CurrentOwnership traces conveyance paths on the tract's instruments
// down to parties who never conveyed onward, multiplying interest
// fractions along each path.
func (b *Builder) CurrentOwnership(ctx context.Context, spatialKey string) ([]OwnershipInterest, error) {
	result, err := b.run(ctx, `
		MATCH (t:Tract {spatialKey: $tract_key})<-[:COVERS]-(i:Instrument)
		WITH t, collect(i.id) AS instrumentIds
		MATCH (root:Party)-[conveyances:CONVEYED*]->(owner:Party)
		WHERE ALL(c IN conveyances WHERE c.instrumentId IN instrumentIds)
		  AND NOT EXISTS {
		    MATCH (owner)-[c2:CONVEYED]->(:Party)
		    WHERE c2.instrumentId IN instrumentIds
		  }
		RETURN owner.name AS current_owner,
		       owner.normalizedName AS normalized_name,
		       reduce(interest = 1.0, c IN conveyances |
		         interest * COALESCE(c.interestFraction, 1.0)
		       ) AS ownership_interest`,
		map[string]any{"tract_key": spatialKey})
	if err != nil {
		return nil, fmt.Errorf("computing ownership for %s: %w", spatialKey, err)
	}

	interests := make([]OwnershipInterest, 0, len(result.Records))
	for _, record := range result.Records {
		m := record.AsMap()
		interests = append(interests, OwnershipInterest{
			Owner:          stringValue(m, "current_owner"),
			NormalizedName: stringValue(m, "normalized_name"),
			Interest:       floatValue(m, "ownership_interest"),
		})
	}
	return interests, nil
}

// PartyInstruments returns instruments where the party appears as
// grantor (or grantee when asGrantor is false).
func (b *Builder) PartyInstruments(ctx context.Context, normalizedName string, asGrantor bool) ([]SectionInstrument, error) {
	pattern := "(p:Party {normalizedName: $name})-[c:CONVEYED]->(other:Party)"
	if !asGrantor {
		pattern = "(p:Party {normalizedName: $name})<-[c:CONVEYED]-(other:Party)"
	}

	result, err := b.run(ctx, fmt.Sprintf(`
		MATCH %s
		MATCH (i:Instrument {id: c.instrumentId})-[:COVERS]->(t:Tract)
		RETURN i.id AS id,
		       i.documentType AS document_type,
		       i.recordingInfo AS recording_info,
		       toString(i.recordingDate) AS recording_date,
		       collect(t.spatialKey) AS tracts
		ORDER BY recording_date`, pattern),
		map[string]any{"name": normalizedName})
	if err != nil {
		return nil, fmt.Errorf("querying instruments for party %s: %w", normalizedName, err)
	}

	instruments := make([]SectionInstrument, 0, len(result.Records))
	for _, record := range result.Records {
		m := record.AsMap()
		instruments = append(instruments, SectionInstrument{
			ID:            stringValue(m, "id"),
			DocumentType:  stringValue(m, "document_type"),
			RecordingInfo: stringValue(m, "recording_info"),
			RecordingDate: stringValue(m, "recording_date"),
			Tracts:        stringSliceValue(m, "tracts"),
		})
	}
	return instruments, nil
}

func stringValue(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case dbtype.Date:
		return v.Time().Format("2006-01-02")
	default:
		return ""
	}
}

func floatValue(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func stringSliceValue(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
