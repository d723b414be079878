package graph

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/titula/extract"
	"github.com/tsawler/titula/normalizer"
	"github.com/tsawler/titula/tables"
)

// BuildResult lists the node ids one document produced.
type BuildResult struct {
	InstrumentID string
	PartyIDs     []string
	TractIDs     []string
}

// BuildFromExtraction writes one document's extraction plus its lease
// schedule into the graph: the instrument, both party lists joined by
// CONVEYED edges, and a tract (with its section) per lease record whose
// land description yields a spatial key. Descriptions that do not
// resolve are skipped rather than creating half-keyed tracts.
func BuildFromExtraction(ctx context.Context, b *Builder, extraction *extract.DocumentExtraction, leaseRecords []tables.LeaseRecord, pdfURL string) (*BuildResult, error) {
	result := &BuildResult{}

	recording := extraction.RecordingInfo
	recordingInfo := ""
	if recording.Book != "" {
		recordingInfo = fmt.Sprintf("Bk %s/Pg %s", recording.Book, recording.Page)
	}

	instrumentID, err := b.UpsertInstrument(ctx, Instrument{
		DocumentType:         extraction.DocumentType,
		RecordingInfo:        recordingInfo,
		DocumentNumber:       recording.DocumentNumber,
		Book:                 recording.Book,
		Page:                 recording.Page,
		County:               recording.County,
		State:                recording.State,
		ExecutionDate:        parseDate(extraction.Dates.Execution),
		RecordingDate:        parseDate(extraction.Dates.Recording),
		PDFURL:               pdfURL,
		ExtractionConfidence: extraction.Confidence.Overall,
	})
	if err != nil {
		return nil, err
	}
	result.InstrumentID = instrumentID

	grantorIDs, err := b.upsertParties(ctx, extraction.Parties.Grantors, result)
	if err != nil {
		return nil, err
	}
	granteeIDs, err := b.upsertParties(ctx, extraction.Parties.Grantees, result)
	if err != nil {
		return nil, err
	}

	interests := extraction.Interests
	for _, grantorID := range grantorIDs {
		for _, granteeID := range granteeIDs {
			err := b.CreateConveyed(ctx, Conveyed{
				FromPartyID:      grantorID,
				ToPartyID:        granteeID,
				InstrumentID:     instrumentID,
				InterestType:     interests.InterestType,
				InterestFraction: parseFraction(interests.ConveyedFraction),
				Reservations:     interests.Reserved,
				ConveyanceDate:   parseDate(extraction.Dates.Execution),
			})
			if err != nil {
				return nil, err
			}
		}
	}

	for _, lease := range leaseRecords {
		if lease.Lands == "" {
			continue
		}

		key := normalizer.GenerateSpatialKey(lease.Lands)
		if key == nil {
			b.log.Debug("land description yielded no spatial key", "lands", lease.Lands)
			continue
		}

		county := key.County
		if county == "" {
			county = lease.County
		}
		state := key.State
		if state == "" {
			state = lease.State
		}

		tractID, err := b.UpsertTract(ctx, Tract{
			SpatialKey:     key.Key,
			Section:        key.Section,
			Township:       key.Township,
			Range:          key.Range,
			County:         county,
			State:          state,
			AliquotPart:    key.Aliquot,
			RawDescription: lease.Lands,
		})
		if err != nil {
			return nil, err
		}
		result.TractIDs = append(result.TractIDs, tractID)

		err = b.CreateCovers(ctx, Covers{
			InstrumentID:     instrumentID,
			TractID:          tractID,
			InterestConveyed: interests.Conveyed,
			InterestReserved: interests.Reserved,
		})
		if err != nil {
			return nil, err
		}

		sectionKey := key.SectionKey()
		err = b.UpsertSection(ctx, Section{
			SectionKey: sectionKey,
			Section:    key.Section,
			Township:   key.Township,
			Range:      key.Range,
			County:     key.County,
			State:      key.State,
		})
		if err != nil {
			return nil, err
		}
		if err := b.CreateInSection(ctx, tractID, sectionKey); err != nil {
			return nil, err
		}
	}

	b.log.Info("graph updated",
		"instrument", instrumentID,
		"parties", len(result.PartyIDs),
		"tracts", len(result.TractIDs))
	return result, nil
}

func (b *Builder) upsertParties(ctx context.Context, infos []extract.PartyInfo, result *BuildResult) ([]string, error) {
	var ids []string
	for _, info := range infos {
		if info.Name == "" {
			continue
		}
		normalized := normalizer.NormalizeParty(info.Name)

		entityType := info.EntityType
		if entityType == "" {
			entityType = string(normalized.EntityType)
		}

		id, err := b.UpsertParty(ctx, Party{
			Name:           info.Name,
			NormalizedName: normalized.NormalizedName,
			EntityType:     entityType,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		result.PartyIDs = append(result.PartyIDs, id)
	}
	return ids, nil
}

func parseDate(s string) time.Time {
	t, ok := extract.ParseDate(s)
	if !ok {
		return time.Time{}
	}
	return t
}

// parseFraction interprets "1/2", "50%", or "0.5" as a float. Anything
// unparseable comes back as zero.
func parseFraction(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if strings.Contains(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, "%", "")), 64)
		if err != nil {
			return 0
		}
		return f / 100.0
	}

	if num, den, found := strings.Cut(s, "/"); found {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
