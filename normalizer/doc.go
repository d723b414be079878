// Package normalizer converts free-text fields extracted from oil & gas
// instruments into canonical, matchable identities.
//
// Two families of identity are produced:
//
//   - [SpatialKey] - the canonical Public Land Survey System identifier for a
//     tract of land, derived from a raw legal description. The composite key
//     (STATE-COUNTY-SECTION-TOWNSHIP-RANGE[-ALIQUOT]) is the join key used to
//     link instruments to tracts.
//
//   - [NormalizedParty] - the canonical form of a party name, with entity
//     suffixes stripped and an inferred [EntityType]. Normalized names are
//     used for exact-match identity linking across documents: the grantee of
//     one instrument must normalize to the same string as the grantor of the
//     next for the chain of title to connect.
//
// # Spatial Keys
//
// [GenerateSpatialKey] parses a legal description through a small grammar:
//
//	key := normalizer.GenerateSpatialKey("NW/4 of Section 15, Township 154 North, Range 97 West, Williams County, ND")
//	// key.Key == "ND-WILLIAMS-15-154N-97W-NW4"
//
// Section/township/range extraction tries five ordered pattern families
// (verbose, compact, reversed, township-range-only, fully compact) because
// real legal descriptions vary wildly in word order and abbreviation style
// across drafters and eras. Most-specific forms are tried first.
//
// A key is all-or-nothing: if any of state, county, section, township, or
// range cannot be determined, GenerateSpatialKey returns nil. Partial keys
// are never emitted. The aliquot part is optional.
//
// # Party Names
//
// [NormalizeParty] is pure and total - it never fails:
//
//	p := normalizer.NormalizeParty("Smith Oil, LLC")
//	// p.NormalizedName == "SMITH OIL", p.EntityType == normalizer.EntityLLC
//
// Entity type detection runs on the unmodified uppercased name, before
// suffix stripping, because the suffix is the primary classification signal.
//
// # Determinism
//
// Everything in this package is a deterministic function of its input.
// Nothing here generates identifiers or caches results; identity assignment
// happens at the persistence boundary (see the graph package).
package normalizer
