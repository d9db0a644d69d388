package ocr

import (
	"strconv"

	"github.com/charta-io/charta/model"
)

// ParseRaw normalizes the loosely-typed output of an OCR engine into a
// Detection slice. It is the adapter boundary for engines bridged over
// JSON or an FFI layer, whose results decode into nested []any values of
// the form [box, text, score] per line.
//
// Two container shapes are accepted: a bare detection list, or a pair of
// [detections, timing-metadata] as some engines return. The outer pair is
// unwrapped by taking its first element.
//
// Individual entries that fail to unpack are skipped; a malformed line
// never aborts the page. A nil or empty input yields nil.
func ParseRaw(v any) []Detection {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}

	// Engines returning (result, elapse) pairs: the payload is the first
	// element and is itself a list.
	if !looksLikeDetection(items[0]) {
		inner, ok := items[0].([]any)
		if !ok {
			return nil
		}
		items = inner
	}

	var detections []Detection
	for _, item := range items {
		if d, ok := parseDetection(item); ok {
			detections = append(detections, d)
		}
	}
	return detections
}

// looksLikeDetection reports whether v has the [box, text, score] shape of
// a single detection. Used to disambiguate a bare detection list from a
// (result, metadata) wrapper.
func looksLikeDetection(v any) bool {
	item, ok := v.([]any)
	if !ok || len(item) != 3 {
		return false
	}
	_, isText := item[1].(string)
	return isText
}

// parseDetection unpacks one [box, text, score] entry. The second return
// is false when any component fails to unpack.
func parseDetection(v any) (Detection, bool) {
	item, ok := v.([]any)
	if !ok || len(item) != 3 {
		return Detection{}, false
	}

	box, ok := parseQuad(item[0])
	if !ok {
		return Detection{}, false
	}
	text, ok := item[1].(string)
	if !ok {
		return Detection{}, false
	}
	score, ok := parseFloat(item[2])
	if !ok {
		return Detection{}, false
	}

	return Detection{Box: box, Text: text, Score: score}, true
}

// parseQuad unpacks a polygon of four [x, y] pairs.
func parseQuad(v any) (model.Quad, bool) {
	pts, ok := v.([]any)
	if !ok || len(pts) != 4 {
		return model.Quad{}, false
	}

	var q model.Quad
	for i, pv := range pts {
		pair, ok := pv.([]any)
		if !ok || len(pair) != 2 {
			return model.Quad{}, false
		}
		x, okX := parseFloat(pair[0])
		y, okY := parseFloat(pair[1])
		if !okX || !okY {
			return model.Quad{}, false
		}
		q[i] = model.Point{X: int(x + 0.5), Y: int(y + 0.5)}
	}
	return q, true
}

// parseFloat accepts the numeric encodings seen across engine bridges:
// JSON numbers decode as float64, FFI layers may hand over ints, and some
// engines stringify their scores.
func parseFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
