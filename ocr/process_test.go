package ocr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charta-io/charta/model"
)

// fakeEngine returns a fixed detection list, recording the image it saw.
type fakeEngine struct {
	detections []Detection
	err        error
	sawGray    bool
}

func (f *fakeEngine) Recognize(img image.Image) ([]Detection, error) {
	_, f.sawGray = img.(*image.Gray)
	if f.err != nil {
		return nil, f.err
	}
	return f.detections, nil
}

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func det(text string, score float64, y int) Detection {
	return Detection{
		Box:   model.QuadFromRect(image.Rect(5, y, 120, y+14)),
		Text:  text,
		Score: score,
	}
}

func TestProcessAssemblesText(t *testing.T) {
	engine := &fakeEngine{detections: []Detection{
		det("Invoice No: INV-1", 0.99, 5),
		det("", 0.40, 25),
		det("Total: 9.99", 0.93, 45),
	}}

	res, err := Process(engine, whitePage(200, 80), Options{})
	require.NoError(t, err)

	assert.Equal(t, "Invoice No: INV-1\nTotal: 9.99", res.Text)
	require.Len(t, res.Lines, 3)
	assert.Equal(t, model.JoinLines(res.Lines), res.Text)
	assert.Nil(t, res.Visualization)
}

func TestProcessBlankPage(t *testing.T) {
	engine := &fakeEngine{}
	res, err := Process(engine, whitePage(50, 50), Options{Visualize: true})
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Empty(t, res.Lines)
	assert.Nil(t, res.Visualization)
}

func TestProcessEngineError(t *testing.T) {
	engine := &fakeEngine{err: errors.New("engine exploded")}
	res, err := Process(engine, whitePage(50, 50), Options{})
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestProcessPreprocessesInput(t *testing.T) {
	engine := &fakeEngine{}
	_, err := Process(engine, whitePage(50, 50), Options{Preprocess: true})
	require.NoError(t, err)
	assert.True(t, engine.sawGray, "engine should receive the preprocessed grayscale image")

	engine = &fakeEngine{}
	_, err = Process(engine, whitePage(50, 50), Options{})
	require.NoError(t, err)
	assert.False(t, engine.sawGray, "engine should receive the original image when preprocessing is off")
}

func TestProcessVisualization(t *testing.T) {
	engine := &fakeEngine{detections: []Detection{det("hello", 0.9, 10)}}
	res, err := Process(engine, whitePage(200, 60), Options{Visualize: true})
	require.NoError(t, err)
	require.NotNil(t, res.Visualization)

	// Valid PNG of the same dimensions as the original.
	cfg, err := pngConfig(res.Visualization)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestProcessVisualizationDoesNotAffectText(t *testing.T) {
	engine := &fakeEngine{detections: []Detection{det("hello", 0.9, 10)}}

	plain, err := Process(engine, whitePage(200, 60), Options{})
	require.NoError(t, err)
	visual, err := Process(engine, whitePage(200, 60), Options{Visualize: true})
	require.NoError(t, err)

	assert.Equal(t, plain.Text, visual.Text)
	assert.Equal(t, plain.Lines, visual.Lines)
}

func pngConfig(data []byte) (image.Config, error) {
	return png.DecodeConfig(bytes.NewReader(data))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	long := "this label is much longer than forty characters and gets cut"
	assert.Len(t, []rune(truncate(long, 40)), 40)
}
