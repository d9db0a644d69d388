package charta

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog"

	"github.com/charta-io/charta/classify"
	"github.com/charta-io/charta/extract"
	"github.com/charta-io/charta/model"
	"github.com/charta-io/charta/ocr"
	"github.com/charta-io/charta/raster"
)

// ErrNoEngine is returned by Process when an image or PDF source has no
// OCR engine configured.
var ErrNoEngine = errors.New("charta: no OCR engine configured")

// ErrNoSource is returned by Process when the pipeline has nothing to
// work on.
var ErrNoSource = errors.New("charta: no input source")

// ErrUnsupportedFormat is returned by Process when the input content is
// not a PDF or a supported image format.
var ErrUnsupportedFormat = errors.New("charta: unsupported input format")

// Pipeline is an immutable chain of processing steps. Each configuration
// method returns a new Pipeline with the change applied; Process is the
// terminal operation.
type Pipeline struct {
	name   string
	images []image.Image
	pdf    []byte
	text   *string

	engine   ocr.Engine
	renderer raster.Renderer
	options  Options
	logger   zerolog.Logger

	// err records a configuration failure so it can surface from
	// Process instead of being silently dropped mid-chain.
	err error
}

// clone creates a copy of the pipeline for the next link in the chain.
// Sources are shared; options are deep-copied.
func (p *Pipeline) clone() *Pipeline {
	np := *p
	np.options = p.options.clone()
	return &np
}

// Process runs the pipeline and returns the structured result: one entry
// per processed page plus a document-level classification and extraction
// over the combined text.
func (p *Pipeline) Process() (*model.DocumentResult, error) {
	if p.err != nil {
		return nil, p.err
	}

	if p.text != nil {
		return p.processText(*p.text), nil
	}

	imgs, err := p.sourceImages()
	if err != nil {
		return nil, err
	}
	if p.engine == nil {
		return nil, ErrNoEngine
	}

	result := &model.DocumentResult{FileName: p.name}
	for i, img := range imgs {
		page, err := p.processPage(i+1, img)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		result.Pages = append(result.Pages, page)
	}

	p.summarize(result)
	return result, nil
}

// sourceImages resolves the page images to process, capped at the
// configured page limit.
func (p *Pipeline) sourceImages() ([]image.Image, error) {
	switch {
	case len(p.images) > 0:
		imgs := p.images
		if len(imgs) > p.options.maxPages {
			imgs = imgs[:p.options.maxPages]
		}
		return imgs, nil
	case len(p.pdf) > 0:
		r := p.renderer
		if r == nil {
			r = raster.PageImages{}
		}
		imgs, err := r.Render(p.pdf, p.options.maxPages, p.options.dpi)
		if err != nil {
			return nil, fmt.Errorf("rendering pages: %w", err)
		}
		if len(imgs) == 0 {
			return nil, errors.New("charta: no renderable pages")
		}
		return imgs, nil
	default:
		return nil, ErrNoSource
	}
}

// processPage runs OCR, classification, and extraction over one page.
func (p *Pipeline) processPage(number int, img image.Image) (model.PageResult, error) {
	ocrResult, err := ocr.Process(p.engine, img, ocr.Options{
		Preprocess:        p.options.preprocess,
		PreprocessOptions: p.options.preprocessOptions(),
		Visualize:         p.options.visualize,
	})
	if err != nil {
		return model.PageResult{}, err
	}

	docType := classify.DetectDocumentType(ocrResult.Text)
	fields := extract.Fields(ocrResult.Text, docType, p.options.customRules)

	p.logger.Debug().
		Int("page", number).
		Str("doc_type", string(docType)).
		Int("lines", len(ocrResult.Lines)).
		Msg("page processed")

	return model.PageResult{
		Page:          number,
		DocType:       docType,
		Text:          ocrResult.Text,
		Lines:         ocrResult.Lines,
		Extracted:     fields,
		Visualization: ocrResult.Visualization,
	}, nil
}

// processText handles text-only sources. The text is treated as a single
// page with synthetic lines so the page invariants still hold: the page
// text equals its joined lines.
func (p *Pipeline) processText(text string) *model.DocumentResult {
	lines := syntheticLines(text)
	joined := model.JoinLines(lines)

	docType := classify.DetectDocumentType(joined)
	fields := extract.Fields(joined, docType, p.options.customRules)

	result := &model.DocumentResult{
		FileName: p.name,
		Pages: []model.PageResult{{
			Page:      1,
			DocType:   docType,
			Text:      joined,
			Lines:     lines,
			Extracted: fields,
		}},
	}
	p.summarize(result)
	return result
}

// summarize fills the document-level classification and extraction from
// the combined page text.
func (p *Pipeline) summarize(result *model.DocumentResult) {
	full := result.FullText()
	result.DocType = classify.DetectDocumentType(full)
	result.Extracted = extract.Fields(full, result.DocType, p.options.customRules)

	p.logger.Info().
		Str("file", result.FileName).
		Str("doc_type", string(result.DocType)).
		Int("pages", len(result.Pages)).
		Msg("document processed")
}

// syntheticLines splits text into per-line detections with no geometry
// and full confidence.
func syntheticLines(text string) []model.TextLine {
	var lines []model.TextLine
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, model.TextLine{Text: line, Score: 1.0})
	}
	return lines
}
