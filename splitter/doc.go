// Package splitter partitions scanned legal documents into a narrative
// body and the exhibit sections appended to it.
//
// # How It Works
//
// Long assignment-style instruments attach their schedules, legal
// descriptions, and plats after the narrative body, and each exhibit page
// carries a header label ("EXHIBIT A", "SCHEDULE OF LEASES"). The splitter
// OCRs only the top portion of each page in a bounded window at the front
// of the document, matches the text against a fixed ordered marker list,
// and merges consecutive same-marker pages into logical regions:
//
//	doc, _ := pdfdoc.Open("assignment.pdf")
//	s := splitter.New(splitter.DefaultConfig())
//	plan := s.FindSplitPoints(doc)
//	result, err := s.Split(doc, plan)
//
// A document with no markers in the scan window is treated as all body;
// that is the common case for short deeds and simple leases, not an error.
//
// # Content Classification
//
// Each region is classified by [Classify] into one of table,
// legal_descriptions, image, or narrative, which routes it to the
// processor that can actually read it: lease schedules go to table
// extraction, plats are imaged, everything else is narrative text.
//
// # Cleanup
//
// Materialized sub-documents are temporary. The caller owns the returned
// [SplitResult] and removes its files with [SplitResult.Cleanup]. A split
// that fails part-way removes whatever it already wrote before returning.
package splitter
