//go:build !ocr

package pdfdoc

import (
	"fmt"

	"github.com/tsawler/titula/ocr"
)

// Without the ocr build tag there is no rasterization path: scanned pages
// with no text layer cannot be read. The splitter treats this as a
// per-page failure and keeps scanning.
func newRasterizer(path string) (headerRasterizer, error) {
	return nil, fmt.Errorf("scanned pages need page rendering: %w", ocr.ErrOCRNotEnabled)
}
