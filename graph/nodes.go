package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Party is a person or entity in the chain of title. Parties merge on
// NormalizedName; differing original spellings accumulate as aliases.
type Party struct {
	Name           string
	NormalizedName string
	EntityType     string
	Aliases        []string
}

// Instrument is one recorded legal document.
type Instrument struct {
	DocumentType         string
	RecordingInfo        string
	DocumentNumber       string
	Book                 string
	Page                 string
	County               string
	State                string
	ExecutionDate        time.Time
	RecordingDate        time.Time
	PDFURL               string
	ExtractionConfidence float64
}

// Tract is one parcel of land, merged on its spatial key.
type Tract struct {
	SpatialKey     string
	Section        string
	Township       string
	Range          string
	County         string
	State          string
	AliquotPart    string
	Acres          float64
	RawDescription string
}

// Section aggregates the tracts inside one survey section.
type Section struct {
	SectionKey string
	Section    string
	Township   string
	Range      string
	County     string
	State      string
}

// dateParam turns a time into the ISO string Neo4j's date() accepts, or
// nil for a zero time so the property stays null.
func dateParam(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
}

// emptyToNil maps an empty string to nil so merged nodes keep existing
// values through COALESCE.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// UpsertParty creates or updates a Party node and returns its id. On a
// merge with an existing node the longer name wins and the shorter one
// joins the aliases.
func (b *Builder) UpsertParty(ctx context.Context, party Party) (string, error) {
	aliases := party.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	result, err := b.run(ctx, `
		MERGE (p:Party {normalizedName: $normalized_name})
		ON CREATE SET
		    p.id = $id,
		    p.name = $name,
		    p.entityType = $entity_type,
		    p.aliases = $aliases
		ON MATCH SET
		    p.name = CASE WHEN size($name) > size(p.name) THEN $name ELSE p.name END,
		    p.entityType = COALESCE($entity_type, p.entityType),
		    p.aliases = CASE
		        WHEN NOT $name IN p.aliases AND $name <> p.name
		        THEN p.aliases + $name
		        ELSE p.aliases
		    END
		RETURN p.id AS id`,
		map[string]any{
			"id":              uuid.NewString(),
			"name":            party.Name,
			"normalized_name": party.NormalizedName,
			"entity_type":     emptyToNil(party.EntityType),
			"aliases":         aliases,
		})
	if err != nil {
		return "", fmt.Errorf("upserting party %q: %w", party.Name, err)
	}
	return singleID(result)
}

// UpsertInstrument creates an Instrument node and returns its id. Every
// document produces its own instrument, so this is a plain create keyed
// by a fresh id.
func (b *Builder) UpsertInstrument(ctx context.Context, inst Instrument) (string, error) {
	result, err := b.run(ctx, `
		MERGE (i:Instrument {id: $id})
		SET i.documentType = $document_type,
		    i.recordingInfo = $recording_info,
		    i.documentNumber = $document_number,
		    i.book = $book,
		    i.page = $page,
		    i.county = $county,
		    i.state = $state,
		    i.executionDate = CASE WHEN $execution_date IS NOT NULL
		        THEN date($execution_date) ELSE NULL END,
		    i.recordingDate = CASE WHEN $recording_date IS NOT NULL
		        THEN date($recording_date) ELSE NULL END,
		    i.pdfUrl = $pdf_url,
		    i.extractionConfidence = $extraction_confidence
		RETURN i.id AS id`,
		map[string]any{
			"id":                    uuid.NewString(),
			"document_type":         inst.DocumentType,
			"recording_info":        emptyToNil(inst.RecordingInfo),
			"document_number":       emptyToNil(inst.DocumentNumber),
			"book":                  emptyToNil(inst.Book),
			"page":                  emptyToNil(inst.Page),
			"county":                emptyToNil(inst.County),
			"state":                 emptyToNil(inst.State),
			"execution_date":        dateParam(inst.ExecutionDate),
			"recording_date":        dateParam(inst.RecordingDate),
			"pdf_url":               emptyToNil(inst.PDFURL),
			"extraction_confidence": inst.ExtractionConfidence,
		})
	if err != nil {
		return "", fmt.Errorf("upserting instrument: %w", err)
	}
	return singleID(result)
}

// UpsertTract creates or updates a Tract node keyed by spatial key and
// returns its id.
func (b *Builder) UpsertTract(ctx context.Context, tract Tract) (string, error) {
	var acres any
	if tract.Acres > 0 {
		acres = tract.Acres
	}

	result, err := b.run(ctx, `
		MERGE (t:Tract {spatialKey: $spatial_key})
		ON CREATE SET
		    t.id = $id,
		    t.section = $section,
		    t.township = $township,
		    t.range = $range,
		    t.county = $county,
		    t.state = $state,
		    t.aliquotPart = $aliquot_part,
		    t.acres = $acres,
		    t.rawDescription = $raw_description
		ON MATCH SET
		    t.acres = COALESCE($acres, t.acres),
		    t.rawDescription = COALESCE($raw_description, t.rawDescription)
		RETURN t.id AS id`,
		map[string]any{
			"id":              uuid.NewString(),
			"spatial_key":     tract.SpatialKey,
			"section":         emptyToNil(tract.Section),
			"township":        emptyToNil(tract.Township),
			"range":           emptyToNil(tract.Range),
			"county":          emptyToNil(tract.County),
			"state":           emptyToNil(tract.State),
			"aliquot_part":    emptyToNil(tract.AliquotPart),
			"acres":           acres,
			"raw_description": emptyToNil(tract.RawDescription),
		})
	if err != nil {
		return "", fmt.Errorf("upserting tract %q: %w", tract.SpatialKey, err)
	}
	return singleID(result)
}

// UpsertSection creates or updates a Section node keyed by section key.
func (b *Builder) UpsertSection(ctx context.Context, section Section) error {
	_, err := b.run(ctx, `
		MERGE (s:Section {sectionKey: $section_key})
		SET s.section = $section,
		    s.township = $township,
		    s.range = $range,
		    s.county = $county,
		    s.state = $state`,
		map[string]any{
			"section_key": section.SectionKey,
			"section":     section.Section,
			"township":    section.Township,
			"range":       section.Range,
			"county":      section.County,
			"state":       section.State,
		})
	if err != nil {
		return fmt.Errorf("upserting section %q: %w", section.SectionKey, err)
	}
	return nil
}

// singleID pulls the id column from a one-row result.
func singleID(result *neo4j.EagerResult) (string, error) {
	if len(result.Records) == 0 {
		return "", fmt.Errorf("upsert returned no rows")
	}
	id, _, err := neo4j.GetRecordValue[string](result.Records[0], "id")
	if err != nil {
		return "", fmt.Errorf("reading id from upsert result: %w", err)
	}
	return id, nil
}
