package preprocess

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Options configures the preprocessing pipeline. The zero value disables
// every optional step; use DefaultOptions for the recommended settings.
type Options struct {
	// Denoise enables edge-preserving smoothing before thresholding.
	Denoise bool

	// DenoiseStrength controls how aggressively pixels are smoothed.
	// Neighbors whose intensity differs by more than twice this value are
	// excluded from the average.
	DenoiseStrength int

	// ThresholdWindow is the side length of the local window used for
	// adaptive thresholding. Must be odd; even values are rounded up.
	ThresholdWindow int

	// ThresholdC is subtracted from the local mean when binarizing.
	ThresholdC int

	// Deskew enables rotation correction based on the dominant angle of
	// the foreground text block.
	Deskew bool
}

// DefaultOptions returns the settings that work well for typical scanned
// documents: denoising at strength 10 and a 35-pixel threshold window with
// constant 11.
func DefaultOptions() Options {
	return Options{
		Denoise:         true,
		DenoiseStrength: 10,
		ThresholdWindow: 35,
		ThresholdC:      11,
		Deskew:          false,
	}
}

// Run applies the full preprocessing pipeline in fixed order: grayscale,
// denoise, adaptive threshold, optional deskew.
//
// Run never fails. If a step cannot proceed it returns the result of the
// last step that did.
func Run(src image.Image, opts Options) *image.Gray {
	gray := Grayscale(src)
	if gray.Bounds().Empty() {
		return gray
	}

	work := gray
	if opts.Denoise {
		work = Denoise(work, opts.DenoiseStrength)
	}

	work = AdaptiveThreshold(work, opts.ThresholdWindow, opts.ThresholdC)

	if opts.Deskew {
		work = Deskew(work)
	}
	return work
}

// Grayscale converts any image to 8-bit grayscale.
func Grayscale(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		out := image.NewGray(g.Bounds())
		draw.Draw(out, out.Bounds(), g, g.Bounds().Min, draw.Src)
		return out
	}
	b := src.Bounds()
	out := image.NewGray(b)
	draw.Draw(out, b, src, b.Min, draw.Src)
	return out
}

// Denoise smooths the image while preserving edges. Each pixel becomes the
// average of the neighbors in a 5x5 window whose intensity lies within
// 2*strength of its own; sharp transitions (text edges) survive because
// pixels across an edge fall outside that band.
func Denoise(src *image.Gray, strength int) *image.Gray {
	if strength <= 0 {
		return src
	}
	b := src.Bounds()
	out := image.NewGray(b)
	band := 2 * strength

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			center := int(src.GrayAt(x, y).Y)
			sum, n := 0, 0
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					nx, ny := x+dx, y+dy
					if nx < b.Min.X || nx >= b.Max.X || ny < b.Min.Y || ny >= b.Max.Y {
						continue
					}
					v := int(src.GrayAt(nx, ny).Y)
					if abs(v-center) <= band {
						sum += v
						n++
					}
				}
			}
			out.SetGray(x, y, color.Gray{Y: uint8(sum / n)})
		}
	}
	return out
}

// AdaptiveThreshold binarizes the image against the local mean: a pixel
// becomes white when it exceeds the mean of its surrounding window minus c,
// black otherwise. Local statistics keep text legible under uneven
// illumination where a single global threshold would fail.
func AdaptiveThreshold(src *image.Gray, window, c int) *image.Gray {
	b := src.Bounds()
	if b.Empty() {
		return src
	}
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}

	w, h := b.Dx(), b.Dy()
	integral := buildIntegral(src)
	out := image.NewGray(b)
	r := window / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-r), max(0, y-r)
			x1, y1 := min(w-1, x+r), min(h-1, y+r)
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			sum := integral[(y1+1)*(w+1)+(x1+1)] -
				integral[y0*(w+1)+(x1+1)] -
				integral[(y1+1)*(w+1)+x0] +
				integral[y0*(w+1)+x0]
			mean := sum / int64(area)

			v := int64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			if v > mean-int64(c) {
				out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 255})
			} else {
				out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

// buildIntegral computes a summed-area table with one extra row and column
// of zeros, so window sums need four lookups.
func buildIntegral(src *image.Gray) []int64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}
	return integral
}

// Deskew estimates the dominant rotation of the foreground text block and
// rotates the image to correct it. The input is expected to be binarized
// (foreground black on white). If there are no foreground pixels the image
// is returned unchanged.
func Deskew(src *image.Gray) *image.Gray {
	angle, ok := skewAngle(src)
	if !ok || angle == 0 {
		return src
	}
	return rotate(src, angle)
}

// skewAngle returns the correction angle in degrees, derived from the
// minimum-area bounding rectangle over the foreground pixels. The raw
// rectangle angle lies in [-90, 0); angles below -45 are remapped via
// -(90+angle), others via -angle, resolving the quadrant ambiguity of the
// rectangle representation.
func skewAngle(src *image.Gray) (float64, bool) {
	pts := foregroundPoints(src)
	if len(pts) == 0 {
		return 0, false
	}

	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0, false
	}

	raw := minAreaRectAngle(hull)
	if raw < -45 {
		return -(90 + raw), true
	}
	return -raw, true
}

// foregroundPoints collects the dark pixels of a binarized image.
func foregroundPoints(src *image.Gray) []image.Point {
	b := src.Bounds()
	var pts []image.Point
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.GrayAt(x, y).Y < 128 {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// convexHull computes the convex hull of a point set using the monotone
// chain algorithm. The result is in counter-clockwise order.
func convexHull(pts []image.Point) []image.Point {
	if len(pts) < 3 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b image.Point) int64 {
		return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
	}

	var hull []image.Point
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// minAreaRectAngle finds the rotation of the minimum-area rectangle
// enclosing the hull (rotating calipers over hull edges) and reports it in
// the [-90, 0) convention.
func minAreaRectAngle(hull []image.Point) float64 {
	bestArea := math.Inf(1)
	bestTheta := 0.0

	for i := 0; i < len(hull); i++ {
		p1 := hull[i]
		p2 := hull[(i+1)%len(hull)]
		theta := math.Atan2(float64(p2.Y-p1.Y), float64(p2.X-p1.X))

		cos, sin := math.Cos(theta), math.Sin(theta)
		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := cos*float64(p.X) + sin*float64(p.Y)
			v := -sin*float64(p.X) + cos*float64(p.Y)
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			bestTheta = theta
		}
	}

	deg := bestTheta * 180 / math.Pi
	for deg >= 0 {
		deg -= 90
	}
	for deg < -90 {
		deg += 90
	}
	return deg
}

// rotate rotates the image by the given angle (degrees, counter-clockwise)
// about its center on the full original canvas, resampling with a
// Catmull-Rom kernel. Exposed borders are filled with the image's dominant
// border shade so the edges blend instead of introducing hard frames.
func rotate(src *image.Gray, degrees float64) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)

	fill := borderShade(src)
	draw.Draw(out, b, &image.Uniform{C: color.Gray{Y: fill}}, image.Point{}, draw.Src)

	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2

	// src -> dst affine: translate center to origin, rotate, translate back.
	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	xdraw.CatmullRom.Transform(out, m, src, b, xdraw.Over, nil)
	return out
}

// borderShade samples the outermost pixel ring and returns the majority
// shade, white or black.
func borderShade(src *image.Gray) uint8 {
	b := src.Bounds()
	var light, dark int
	for x := b.Min.X; x < b.Max.X; x++ {
		for _, y := range []int{b.Min.Y, b.Max.Y - 1} {
			if src.GrayAt(x, y).Y < 128 {
				dark++
			} else {
				light++
			}
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, x := range []int{b.Min.X, b.Max.X - 1} {
			if src.GrayAt(x, y).Y < 128 {
				dark++
			} else {
				light++
			}
		}
	}
	if dark > light {
		return 0
	}
	return 255
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
