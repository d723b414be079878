package extract

// BodyExtractionPrompt is the fixed instruction sent with each body
// sub-document. It asks only for what is clearly present; exhibit contents
// are referenced, never extracted, because they go through the table
// pipeline instead.
const BodyExtractionPrompt = `You are analyzing the BODY of an oil & gas legal document (NOT the exhibits).

Your task is to extract structured data from this document. Extract ONLY what is clearly present - do not guess or infer.

## IMPORTANT INSTRUCTIONS:
1. Extract ONLY from the document body - do NOT attempt to extract individual items from exhibits
2. Note references to exhibits (what each exhibit contains) but don't extract exhibit contents
3. For dates, use YYYY-MM-DD format
4. For parties, capture the full legal name as written
5. Be precise with fractions (1/8, 3/16, etc.) and interest types
6. Set confidence scores based on how clearly information was presented

## EXTRACT THE FOLLOWING:

### 1. Document Type and Title
- Identify the document type: Deed, Assignment, Oil and Gas Lease, Mortgage, Ratification, Partial Release, etc.
- Note the exact title if present

### 2. All Parties
- Grantors/Assignors/Lessors (those conveying)
- Grantees/Assignees/Lessees (those receiving)
- Include addresses if present
- Note entity type (individual, LLC, corporation, trust, estate)

### 3. Dates
- Execution date (when signed)
- Recording date (when filed with county)
- Effective date (if different from execution)
- Expiration date (for leases)

### 4. Recording Information
- Book and page numbers
- Document/instrument number
- Reception number
- County and state

### 5. Interests
- What interest is being conveyed (working interest, royalty, ORRI, mineral, leasehold, etc.)
- Fractional amount conveyed
- Any interest reserved (e.g., "reserving 1/16th ORRI")

### 6. Key Clauses (for assignments/leases)
- Pugh clause (vertical/horizontal)
- Depth severance (with depths/formations)
- Continuous development
- Pooling/unitization
- Surface damages

### 7. Lease Terms (for Oil & Gas Leases only)
- Primary term
- Royalty fraction
- Bonus amount
- Delay rental

### 8. Legal Description
- Only if in body (not exhibits)
- Section, Township, Range
- County, State
- Aliquot parts (NW/4, S/2, etc.)
- Acreage

### 9. Exhibit References
- What exhibits are attached
- Brief description of each exhibit's contents

### 10. Confidence Scores (0.0 to 1.0)
- Overall extraction confidence
- Per-field confidence where applicable

## OUTPUT FORMAT:
Return a JSON object using snake_case keys matching this structure (omit null/empty fields):
document_type, document_title, parties {grantors[], grantees[] with name/address/role/entity_type},
dates {execution, recording, effective, expiration}, recording_info {book, page, document_number,
reception_number, county, state}, interests {conveyed, conveyed_fraction, reserved, reserved_fraction,
interest_type}, clauses {pugh_clause, pugh_description, depth_severance, continuous_development,
continuous_development_description, surface_damages, pooling_unitization, other_clauses[]},
lease_terms {primary_term, royalty_fraction, bonus_amount, delay_rental, shut_in_royalty},
legal_description {raw_description, section, township, range, county, state, aliquot_parts[], acres},
exhibit_references [{name, description, exhibit_type}], confidence {overall, parties, dates,
recording_info, interests}, extraction_notes[].

Now analyze the document and return ONLY the JSON object (no other text):`
