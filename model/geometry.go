package model

import (
	"encoding/json"
	"image"
	"math"
)

// Point represents a 2D pixel coordinate.
//
// Points serialize as a two-element [x, y] array, which is the shape OCR
// engines use for polygon vertices.
type Point struct {
	X, Y int
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Quad is the bounding polygon of a detected text line: four vertices in
// clockwise or engine-native order. It is not required to be axis-aligned;
// engines report rotated quadrilaterals for skewed text.
type Quad [4]Point

// QuadFromRect converts an axis-aligned rectangle into a quad with vertices
// in clockwise order starting at the top-left corner.
func QuadFromRect(r image.Rectangle) Quad {
	return Quad{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}

// Bounds returns the axis-aligned bounding rectangle of the quad.
func (q Quad) Bounds() image.Rectangle {
	minX, minY := q[0].X, q[0].Y
	maxX, maxY := q[0].X, q[0].Y
	for _, p := range q[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX, maxY)
}

// Center returns the centroid of the quad's vertices.
func (q Quad) Center() Point {
	var sx, sy int
	for _, p := range q {
		sx += p.X
		sy += p.Y
	}
	return Point{sx / 4, sy / 4}
}

// IsEmpty returns true if all vertices coincide.
func (q Quad) IsEmpty() bool {
	return q[0] == q[1] && q[1] == q[2] && q[2] == q[3]
}
