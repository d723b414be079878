package normalizer

import (
	"fmt"
	"regexp"
	"strings"
)

// RecordingRef holds the components of a county recording reference.
// Older instruments are recorded by book and page, newer ones by a
// document or instrument number; many carry both.
type RecordingRef struct {
	Book      string
	Page      string
	DocNumber string
}

var (
	digitsOnly    = regexp.MustCompile(`[^\d]`)
	bookPageRef   = regexp.MustCompile(`B(?:OO)?K\.?\s*(\d+)\s*[/,]\s*P(?:A?GE?)?\.?\s*(\d+)`)
	docNumberRef  = regexp.MustCompile(`DOC(?:UMENT)?\.?\s*#?\s*([\d-]+)`)
	instNumberRef = regexp.MustCompile(`INST(?:RUMENT)?\.?\s*#?\s*([\d-]+)`)
)

// NormalizeRecordingInfo renders recording components in the canonical
// "Bk <book>/Pg <page>; Doc# <number>" form. Book and page are reduced to
// their digits and emitted only when both are present. An empty string
// means no usable components were supplied.
func NormalizeRecordingInfo(book, page, docNumber string) string {
	var parts []string

	if book != "" && page != "" {
		bookClean := digitsOnly.ReplaceAllString(book, "")
		pageClean := digitsOnly.ReplaceAllString(page, "")
		if bookClean != "" && pageClean != "" {
			parts = append(parts, fmt.Sprintf("Bk %s/Pg %s", bookClean, pageClean))
		}
	}

	if doc := strings.TrimSpace(docNumber); doc != "" {
		parts = append(parts, fmt.Sprintf("Doc# %s", doc))
	}

	return strings.Join(parts, "; ")
}

// ParseRecordingString extracts recording components from free text.
// It accepts the common written variants:
//
//	Bk 450/Pg 123
//	Book 450, Page 123
//	Doc# 2024-001234
//	Bk 450/Pg 123; Doc# 2024-001234
//
// An instrument number is treated as a document number when no explicit
// document number is present. Missing components are left empty.
func ParseRecordingString(s string) RecordingRef {
	var ref RecordingRef
	if s == "" {
		return ref
	}

	text := strings.ToUpper(s)

	if m := bookPageRef.FindStringSubmatch(text); m != nil {
		ref.Book = m[1]
		ref.Page = m[2]
	}

	if m := docNumberRef.FindStringSubmatch(text); m != nil {
		ref.DocNumber = m[1]
	}

	if ref.DocNumber == "" {
		if m := instNumberRef.FindStringSubmatch(text); m != nil {
			ref.DocNumber = m[1]
		}
	}

	return ref
}
