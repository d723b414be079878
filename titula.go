// Package titula provides a fluent API for working with recorded oil &
// gas instruments: splitting a scanned document into its narrative body
// and appended exhibits, and normalizing the legal text inside them.
//
// Basic usage:
//
//	result, err := titula.Open("deed.pdf").Split()
//	if err != nil {
//	    // handle error
//	}
//	defer result.Cleanup()
//
// With options:
//
//	result, err := titula.Open("deed.pdf").
//	    ScanPages(40).
//	    OutputDir("out").
//	    Split()
//
// For lower-level control, the splitter, normalizer, and pdfdoc packages
// are also available directly.
package titula

import (
	"github.com/tsawler/titula/normalizer"
	"github.com/tsawler/titula/splitter"
)

// Open prepares a PDF document for fluent configuration. The file is not
// touched until a terminal operation runs. The returned Document must be
// closed when done, either explicitly via Close() or implicitly through
// a terminal operation like Split().
//
// Example:
//
//	plan, err := titula.Open("deed.pdf").Plan()
func Open(filename string) *Document {
	return &Document{
		filename: filename,
		options:  defaultOptions(),
	}
}

// SpatialKey converts a raw legal description into its canonical tract
// key, or nil when the description lacks a required component.
//
// Example:
//
//	key := titula.SpatialKey("NW/4 of Section 15, T154N, R97W, Williams County, North Dakota")
func SpatialKey(legalDescription string) *normalizer.SpatialKey {
	return normalizer.GenerateSpatialKey(legalDescription)
}

// Party normalizes a party name as written into its canonical identity
// form with a detected entity type.
//
// Example:
//
//	p := titula.Party("Smith Energy, L.L.C.")
func Party(name string) normalizer.NormalizedParty {
	return normalizer.NormalizeParty(name)
}

// Markers returns the exhibit marker phrases the splitter scans for, in
// match order.
func Markers() []string {
	return append([]string(nil), splitter.ExhibitMarkers...)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for scripts and
// tests where error handling would be cumbersome.
//
// Example:
//
//	result := titula.Must(titula.Open("deed.pdf").Split())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
