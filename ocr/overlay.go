package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/charta-io/charta/model"
)

const maxLabelRunes = 40

var (
	outlineColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	labelColor   = color.RGBA{A: 255}
)

// renderOverlay draws each line's polygon as a closed outline, with a
// truncated text label near the polygon's first vertex, onto a copy of the
// original image, and returns the result PNG-encoded.
func renderOverlay(src image.Image, lines []model.TextLine) ([]byte, error) {
	b := src.Bounds()
	canvas := image.NewRGBA(b)
	draw.Draw(canvas, b, src, b.Min, draw.Src)

	for _, ln := range lines {
		drawQuad(canvas, ln.Box)
		if ln.Text != "" {
			drawLabel(canvas, ln.Box[0], truncate(ln.Text, maxLabelRunes))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawQuad outlines the polygon, closing it back to the first vertex.
func drawQuad(dst *image.RGBA, q model.Quad) {
	for i := 0; i < 4; i++ {
		drawSegment(dst, q[i], q[(i+1)%4])
	}
}

// drawSegment draws a 1-pixel line between two points (Bresenham).
func drawSegment(dst *image.RGBA, a, b model.Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		if image.Pt(x, y).In(dst.Bounds()) {
			dst.SetRGBA(x, y, outlineColor)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// drawLabel renders the text just inside the polygon's first vertex.
func drawLabel(dst *image.RGBA, at model.Point, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(at.X+2, at.Y+2+face.Ascent),
	}
	d.DrawString(text)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
