// Package model provides the data model shared by every stage of the
// document-processing pipeline.
//
// All OCR, classification, and extraction operations ultimately produce
// these types, making them the primary API for consuming results.
//
// # Geometry
//
// OCR engines report each detected text line with a bounding polygon:
//
//   - [Point] - a pixel coordinate, serialized as an [x, y] pair
//   - [Quad] - the four-vertex bounding polygon of a text line
//
// # Results
//
// A processed document is a [DocumentResult] containing one [PageResult]
// per page. Each page carries its ordered [TextLine] sequence, the text
// assembled from those lines, a [DocumentType] label, and the extracted
// [Fields].
//
// The page text is always the newline join of the non-empty line texts in
// detection order; [JoinLines] is the single implementation of that rule.
//
// [Fields] follows an omission law: a field that was not found is absent
// from the map, never present with a nil or empty value.
package model
