package ocr

import (
	"fmt"
	"image"

	"github.com/charta-io/charta/model"
	"github.com/charta-io/charta/preprocess"
)

// Options configures a single Process call.
type Options struct {
	// Preprocess runs the image through the preprocessing pipeline before
	// recognition.
	Preprocess bool

	// PreprocessOptions configures that pipeline. Ignored unless
	// Preprocess is set.
	PreprocessOptions preprocess.Options

	// Visualize renders a copy of the original image with each detected
	// line's polygon and a truncated text label drawn on it.
	Visualize bool
}

// Result is the normalized output of OCR over one page.
type Result struct {
	// Text is the newline join of all non-empty line texts, in the order
	// the engine reported them.
	Text string

	// Lines holds one entry per detection, in engine order.
	Lines []model.TextLine

	// Visualization is a PNG of the original image with line polygons
	// drawn on it. Nil unless requested, and nil when rendering fails;
	// it never affects Text or Lines.
	Visualization []byte
}

// Process runs the engine over the image and assembles the page result:
// optional preprocessing, recognition, line normalization, and the optional
// polygon overlay. A blank page (no detections) yields an empty Result,
// not an error.
func Process(engine Engine, img image.Image, opts Options) (*Result, error) {
	input := image.Image(img)
	if opts.Preprocess {
		input = preprocess.Run(img, opts.PreprocessOptions)
	}

	detections, err := engine.Recognize(input)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	lines := make([]model.TextLine, 0, len(detections))
	for _, d := range detections {
		lines = append(lines, model.TextLine{Box: d.Box, Text: d.Text, Score: d.Score})
	}

	result := &Result{
		Text:  model.JoinLines(lines),
		Lines: lines,
	}

	if opts.Visualize && len(lines) > 0 {
		if vis, err := renderOverlay(img, lines); err == nil {
			result.Visualization = vis
		}
	}
	return result, nil
}
