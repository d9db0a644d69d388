package ocr

import (
	"image"

	"github.com/charta-io/charta/model"
)

// Detection is one raw text line reported by an OCR engine: the bounding
// polygon, the recognized text, and a confidence score in [0, 1].
type Detection struct {
	Box   model.Quad
	Text  string
	Score float64
}

// Engine is the recognition contract every OCR backend satisfies. The
// engine is treated as a black box: it receives an image and returns the
// detected lines in its own reading order.
//
// Engines may be expensive to construct. Construct one per process and
// reuse it; implementations must be safe for reuse across calls as long as
// the backend permits it (the Tesseract client is not safe for concurrent
// calls on a single instance).
type Engine interface {
	Recognize(img image.Image) ([]Detection, error)
}
