package graph

import (
	"context"
	"fmt"
	"time"
)

// Conveyed is an ownership transfer between two parties under one
// instrument.
type Conveyed struct {
	FromPartyID      string
	ToPartyID        string
	InstrumentID     string
	InterestType     string
	InterestFraction float64
	Reservations     string
	ConveyanceDate   time.Time
}

// Covers links an instrument to a tract it affects.
type Covers struct {
	InstrumentID     string
	TractID          string
	InterestConveyed string
	InterestReserved string
}

// References links an instrument to one it assigns, releases, ratifies,
// or amends.
type References struct {
	FromInstrumentID string
	ToInstrumentID   string
	ReferenceType    string
}

// CreateConveyed records a CONVEYED relationship. The instrument id on
// the relationship keys it, so re-running the same document is
// idempotent.
func (b *Builder) CreateConveyed(ctx context.Context, rel Conveyed) error {
	var fraction any
	if rel.InterestFraction > 0 {
		fraction = rel.InterestFraction
	}

	_, err := b.run(ctx, `
		MATCH (from:Party {id: $from_id})
		MATCH (to:Party {id: $to_id})
		MERGE (from)-[c:CONVEYED {instrumentId: $instrument_id}]->(to)
		SET c.interestType = $interest_type,
		    c.interestFraction = $interest_fraction,
		    c.reservations = $reservations,
		    c.date = CASE WHEN $conveyance_date IS NOT NULL
		        THEN date($conveyance_date) ELSE NULL END`,
		map[string]any{
			"from_id":           rel.FromPartyID,
			"to_id":             rel.ToPartyID,
			"instrument_id":     rel.InstrumentID,
			"interest_type":     emptyToNil(rel.InterestType),
			"interest_fraction": fraction,
			"reservations":      emptyToNil(rel.Reservations),
			"conveyance_date":   dateParam(rel.ConveyanceDate),
		})
	if err != nil {
		return fmt.Errorf("creating CONVEYED relationship: %w", err)
	}
	return nil
}

// CreateCovers records a COVERS relationship.
func (b *Builder) CreateCovers(ctx context.Context, rel Covers) error {
	_, err := b.run(ctx, `
		MATCH (i:Instrument {id: $instrument_id})
		MATCH (t:Tract {id: $tract_id})
		MERGE (i)-[c:COVERS]->(t)
		SET c.interestConveyed = $interest_conveyed,
		    c.interestReserved = $interest_reserved`,
		map[string]any{
			"instrument_id":     rel.InstrumentID,
			"tract_id":          rel.TractID,
			"interest_conveyed": emptyToNil(rel.InterestConveyed),
			"interest_reserved": emptyToNil(rel.InterestReserved),
		})
	if err != nil {
		return fmt.Errorf("creating COVERS relationship: %w", err)
	}
	return nil
}

// CreateInSection records an IN_SECTION relationship between a tract and
// its section.
func (b *Builder) CreateInSection(ctx context.Context, tractID, sectionKey string) error {
	_, err := b.run(ctx, `
		MATCH (t:Tract {id: $tract_id})
		MATCH (s:Section {sectionKey: $section_key})
		MERGE (t)-[:IN_SECTION]->(s)`,
		map[string]any{
			"tract_id":    tractID,
			"section_key": sectionKey,
		})
	if err != nil {
		return fmt.Errorf("creating IN_SECTION relationship: %w", err)
	}
	return nil
}

// CreateReferences records a REFERENCES relationship between two
// instruments.
func (b *Builder) CreateReferences(ctx context.Context, rel References) error {
	_, err := b.run(ctx, `
		MATCH (from:Instrument {id: $from_id})
		MATCH (to:Instrument {id: $to_id})
		MERGE (from)-[r:REFERENCES]->(to)
		SET r.referenceType = $reference_type`,
		map[string]any{
			"from_id":        rel.FromInstrumentID,
			"to_id":          rel.ToInstrumentID,
			"reference_type": rel.ReferenceType,
		})
	if err != nil {
		return fmt.Errorf("creating REFERENCES relationship: %w", err)
	}
	return nil
}
