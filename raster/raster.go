// Package raster turns PDF bytes into the page images the OCR pipeline
// consumes.
//
// True PDF rasterization (rendering vector content at a chosen DPI) is a
// collaborator concern; this package defines the [Renderer] contract for
// it and ships [PageImages], a renderer for the scanned-document case
// where each PDF page wraps one full-page image that can be lifted out
// directly.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Renderer converts a PDF into raster images, one per page in document
// order, capped at maxPages. The dpi hint controls rasterization quality
// for backends that render; backends that extract embedded images ignore
// it.
type Renderer interface {
	Render(pdf []byte, maxPages, dpi int) ([]image.Image, error)
}

// PageImages extracts page images embedded in the PDF. For scanned
// documents each page carries exactly one image covering the page, which
// stands in for the rendered page. When a page embeds several images the
// largest one is used.
type PageImages struct{}

// Render implements Renderer.
func (PageImages) Render(pdf []byte, maxPages, dpi int) ([]image.Image, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	byPage := map[int]image.Image{}
	digest := func(img pdfmodel.Image, singleImgPerPage bool, maxPageDigits int) error {
		if img.PageNr > maxPages {
			return nil
		}
		decoded, _, err := image.Decode(img)
		if err != nil {
			return nil // Skip images in formats the standard decoders can't handle
		}
		if prev, ok := byPage[img.PageNr]; ok && area(prev) >= area(decoded) {
			return nil
		}
		byPage[img.PageNr] = decoded
		return nil
	}

	pages := []string{fmt.Sprintf("1-%d", maxPages)}
	if err := api.ExtractImages(bytes.NewReader(pdf), pages, digest, conf); err != nil {
		return nil, fmt.Errorf("failed to extract page images: %w", err)
	}

	numbers := make([]int, 0, len(byPage))
	for n := range byPage {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	images := make([]image.Image, 0, len(numbers))
	for _, n := range numbers {
		images = append(images, byPage[n])
	}
	return images, nil
}

func area(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy()
}

// HasEmbeddedText reports whether the PDF already carries a machine-readable
// text layer. Callers can skip OCR entirely for such documents and feed the
// embedded text straight into classification and extraction.
func HasEmbeddedText(pdf []byte) bool {
	text, err := EmbeddedText(pdf, 0)
	return err == nil && text != ""
}

// EmbeddedText returns the PDF's embedded text layer, pages joined with
// blank lines, capped at maxPages (0 means all pages). Pages whose content
// fails to decode are skipped.
func EmbeddedText(pdf []byte, maxPages int) (string, error) {
	r, err := ledongthuc.NewReader(bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages := r.NumPage()
	if maxPages > 0 && maxPages < numPages {
		numPages = maxPages
	}

	var text strings.Builder
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(content)
	}
	return strings.TrimSpace(text.String()), nil
}
