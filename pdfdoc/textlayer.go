package pdfdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// letterHeight is the fallback page height when no MediaBox is found
// (US Letter in PDF points).
const letterHeight = 792.0

// textLayerHeader reads the text layer of a 0-indexed page and returns the
// fragments positioned in the top ratio of the page, reassembled in
// reading order. Returns "" for pages with no text layer (scanned images).
func (d *Document) textLayerHeader(page int, ratio float64) (text string, err error) {
	// The content-stream parser panics on malformed operators.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("reading text layer of page %d: %v", page+1, r)
		}
	}()

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", nil
	}

	height := mediaBoxHeight(p)
	minY := height * (1 - ratio)

	var frags []pdf.Text
	for _, t := range p.Content().Text {
		// PDF coordinates grow upward: the page top is high Y.
		if t.Y >= minY {
			frags = append(frags, t)
		}
	}
	if len(frags) == 0 {
		return "", nil
	}

	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].Y != frags[j].Y {
			return frags[i].Y > frags[j].Y
		}
		return frags[i].X < frags[j].X
	})

	var b strings.Builder
	lastY := frags[0].Y
	for _, t := range frags {
		if t.Y != lastY {
			b.WriteString("\n")
			lastY = t.Y
		}
		b.WriteString(t.S)
	}
	return strings.TrimSpace(b.String()), nil
}

// ExtractText reads the full text layer of a PDF, pages in order separated
// by blank lines. Scanned documents with no text layer yield "". Providers
// that cannot consume a PDF directly work from this text.
func ExtractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("reading text layer of %s: %v", path, r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var b strings.Builder
	for page := 1; page <= reader.NumPage(); page++ {
		p := reader.Page(page)
		if p.V.IsNull() {
			continue
		}

		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if content == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(content)
	}
	return strings.TrimSpace(b.String()), nil
}

// mediaBoxHeight resolves the page height, walking up the page tree when
// the MediaBox is inherited from a parent node.
func mediaBoxHeight(p pdf.Page) float64 {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.IsNull() || mb.Len() < 4 {
			continue
		}
		if h := mb.Index(3).Float64() - mb.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return letterHeight
}
