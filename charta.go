// Package charta provides a fluent API for turning scanned documents into
// structured data: OCR, document-type classification, and rule-driven
// field extraction.
//
// Basic usage:
//
//	engine, err := ocr.New() // requires the "ocr" build tag
//	if err != nil {
//	    // handle error
//	}
//	defer engine.Close()
//
//	result, err := charta.FromPDF("invoice.pdf", pdfBytes).
//	    WithEngine(engine).
//	    MaxPages(5).
//	    Process()
//
// The result is a [model.DocumentResult]: one entry per page with the
// recognized text lines, a document-type label, and the extracted fields,
// plus a document-level summary over all pages. It serializes directly to
// JSON.
//
// With custom extraction rules:
//
//	rules := extract.RuleSet{
//	    "order_ref": {`\border\s*ref\s*[:\-]?\s*([A-Z0-9]{4,})\b`},
//	}
//	result, err := charta.FromImage("scan.png", img).
//	    WithEngine(engine).
//	    CustomRules(rules).
//	    Process()
//
// Each configuration method returns a new Pipeline, so a configured
// pipeline can be shared and further specialized safely across
// goroutines; only the OCR engine itself limits concurrency.
package charta

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/charta-io/charta/config"
	"github.com/charta-io/charta/extract"
	"github.com/charta-io/charta/format"
	"github.com/charta-io/charta/ocr"
	"github.com/charta-io/charta/raster"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// FromImage starts a pipeline over a single page image. The name is
// carried into the result payload as the file name.
func FromImage(name string, img image.Image) *Pipeline {
	return &Pipeline{
		name:    name,
		images:  []image.Image{img},
		options: defaultOptions(),
		logger:  zerolog.Nop(),
	}
}

// FromImages starts a pipeline over multiple page images, one per page in
// the given order.
func FromImages(name string, imgs ...image.Image) *Pipeline {
	return &Pipeline{
		name:    name,
		images:  imgs,
		options: defaultOptions(),
		logger:  zerolog.Nop(),
	}
}

// FromPDF starts a pipeline over PDF bytes. Pages are turned into images
// by the configured [raster.Renderer]; the default renderer lifts the
// embedded page images out of scanned PDFs.
func FromPDF(name string, data []byte) *Pipeline {
	return &Pipeline{
		name:    name,
		pdf:     data,
		options: defaultOptions(),
		logger:  zerolog.Nop(),
	}
}

// FromBytes starts a pipeline over raw file content, sniffing the format
// from magic bytes. PDF content behaves like [FromPDF]; PNG, JPEG, TIFF,
// and BMP content is decoded and behaves like [FromImage].
func FromBytes(name string, data []byte) *Pipeline {
	p := &Pipeline{
		name:    name,
		options: defaultOptions(),
		logger:  zerolog.Nop(),
	}
	switch f := format.DetectFromMagic(data); {
	case f == format.PDF:
		p.pdf = data
	case f.IsImage():
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			p.err = fmt.Errorf("decoding %s content: %w", f, err)
			return p
		}
		p.images = []image.Image{img}
	default:
		p.err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return p
}

// FromFile starts a pipeline over a file on disk. The format is sniffed
// from the content, not the extension, and the base name is carried into
// the result payload.
func FromFile(path string) *Pipeline {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Pipeline{
			name:    filepath.Base(path),
			options: defaultOptions(),
			logger:  zerolog.Nop(),
			err:     fmt.Errorf("reading input: %w", err),
		}
	}
	return FromBytes(filepath.Base(path), data)
}

// FromText starts a pipeline over already-extracted text, skipping OCR
// entirely. Useful for PDFs with an embedded text layer (see
// [raster.HasEmbeddedText]) or text from another recognition system.
func FromText(name, text string) *Pipeline {
	return &Pipeline{
		name:    name,
		text:    &text,
		options: defaultOptions(),
		logger:  zerolog.Nop(),
	}
}

// WithEngine sets the OCR engine. Required for image and PDF sources.
func (p *Pipeline) WithEngine(engine ocr.Engine) *Pipeline {
	np := p.clone()
	np.engine = engine
	return np
}

// WithRenderer sets the PDF renderer. Defaults to [raster.PageImages].
func (p *Pipeline) WithRenderer(r raster.Renderer) *Pipeline {
	np := p.clone()
	np.renderer = r
	return np
}

// WithLogger sets the logger used for per-page processing traces. The
// default discards everything.
func (p *Pipeline) WithLogger(logger zerolog.Logger) *Pipeline {
	np := p.clone()
	np.logger = logger
	return np
}

// WithConfig applies a loaded configuration, replacing the page, DPI,
// preprocessing, and visualization settings. Custom rules referenced by
// the configuration are loaded and applied as well.
func (p *Pipeline) WithConfig(cfg *config.Config) *Pipeline {
	np := p.clone()
	np.options = optionsFromConfig(cfg)
	if rules, err := cfg.Rules(); err == nil && len(rules) > 0 {
		np.options.customRules = rules
	} else if err != nil {
		np.err = err
	}
	return np
}

// MaxPages caps how many pages are processed. Values below 1 are treated
// as 1.
func (p *Pipeline) MaxPages(n int) *Pipeline {
	np := p.clone()
	if n < 1 {
		n = 1
	}
	np.options.maxPages = n
	return np
}

// DPI sets the rasterization quality hint passed to the PDF renderer.
func (p *Pipeline) DPI(n int) *Pipeline {
	np := p.clone()
	np.options.dpi = n
	return np
}

// Preprocess toggles image preprocessing before OCR. Enabled by default.
func (p *Pipeline) Preprocess(enabled bool) *Pipeline {
	np := p.clone()
	np.options.preprocess = enabled
	return np
}

// Deskew toggles rotation correction during preprocessing. Disabled by
// default; it helps skewed scans but costs time.
func (p *Pipeline) Deskew(enabled bool) *Pipeline {
	np := p.clone()
	np.options.deskew = enabled
	return np
}

// Visualize toggles the per-page OCR overlay artifact. Enabled by default.
func (p *Pipeline) Visualize(enabled bool) *Pipeline {
	np := p.clone()
	np.options.visualize = enabled
	return np
}

// CustomRules sets user-supplied extraction rules. The results appear
// under the "custom" key of each page's extracted fields. The rule set
// is copied, so later mutations by the caller don't leak in.
func (p *Pipeline) CustomRules(rules extract.RuleSet) *Pipeline {
	np := p.clone()
	copied := make(extract.RuleSet, len(rules))
	for field, patterns := range rules {
		copied[field] = append([]string(nil), patterns...)
	}
	np.options.customRules = copied
	return np
}
