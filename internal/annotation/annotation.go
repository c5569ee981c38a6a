// Package annotation parses labeled-polygon annotation documents.
//
// The accepted format is the LabelMe-style JSON document: a top-level object
// with a "shapes" array, each entry carrying a "label" string and a "points"
// array of [x, y] pairs. Every other field (imagePath, imageData, flags,
// shape_type, ...) is ignored.
//
//	{
//	  "shapes": [
//	    {"label": "Aorta", "points": [[0, 0], [10, 0], [10, 10], [0, 10]]}
//	  ]
//	}
package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
)

// MaxCoordinate bounds the magnitude of every vertex coordinate. Documents
// with points beyond it are rejected; larger values are never meaningful for
// an image and would overflow exact polygon filling.
const MaxCoordinate = 1 << 24

// Shape is one labeled polygon. Points are polygon vertices in image pixel
// space; the polygon is implicitly closed.
type Shape struct {
	Label  string       `json:"label"`
	Points [][2]float64 `json:"points"`
}

// Pixels returns the vertices rounded to integer pixel coordinates.
// Rounding is half away from zero (math.Round).
func (s Shape) Pixels() []image.Point {
	pts := make([]image.Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = image.Pt(int(math.Round(p[0])), int(math.Round(p[1])))
	}
	return pts
}

// Document is a parsed annotation file.
type Document struct {
	Shapes []Shape `json:"shapes"`
}

// ShapesFor returns the shapes carrying the given label, in document order.
func (d *Document) ShapesFor(label string) []Shape {
	var out []Shape
	for _, s := range d.Shapes {
		if s.Label == label {
			out = append(out, s)
		}
	}
	return out
}

// ParseError reports an annotation document that is not well-formed JSON or
// does not match the expected shape schema.
type ParseError struct {
	// Reason describes what was wrong with the document.
	Reason string
	// Err is the underlying decoder error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid annotation document: %s: %v", e.Reason, e.Err)
	}
	return "invalid annotation document: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// rawShape keeps label and points as raw JSON so each field can be checked
// for presence and type separately.
type rawShape struct {
	Label  *json.RawMessage `json:"label"`
	Points *json.RawMessage `json:"points"`
}

// Parse decodes an annotation document and checks its schema.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &ParseError{Reason: "document is empty"}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &ParseError{Reason: "document is not a JSON object", Err: err}
	}

	rawShapes, ok := top["shapes"]
	if !ok {
		return nil, &ParseError{Reason: `missing "shapes" field`}
	}

	var shapes []rawShape
	if err := json.Unmarshal(rawShapes, &shapes); err != nil {
		return nil, &ParseError{Reason: `"shapes" must be an array of objects`, Err: err}
	}

	doc := &Document{Shapes: make([]Shape, 0, len(shapes))}
	for i, rs := range shapes {
		s, err := decodeShape(rs)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Reason = fmt.Sprintf("shape %d: %s", i, pe.Reason)
			}
			return nil, err
		}
		doc.Shapes = append(doc.Shapes, s)
	}
	return doc, nil
}

func decodeShape(rs rawShape) (Shape, error) {
	var s Shape
	if rs.Label == nil {
		return s, &ParseError{Reason: `missing "label"`}
	}
	if err := json.Unmarshal(*rs.Label, &s.Label); err != nil {
		return s, &ParseError{Reason: `"label" must be a string`, Err: err}
	}
	if rs.Points == nil {
		return s, &ParseError{Reason: `missing "points"`}
	}

	var pts [][]float64
	if err := json.Unmarshal(*rs.Points, &pts); err != nil {
		return s, &ParseError{Reason: `"points" must be an array of [x, y] pairs`, Err: err}
	}
	s.Points = make([][2]float64, len(pts))
	for j, p := range pts {
		if len(p) != 2 {
			return s, &ParseError{Reason: fmt.Sprintf("point %d has %d coordinates, want 2", j, len(p))}
		}
		if math.Abs(p[0]) > MaxCoordinate || math.Abs(p[1]) > MaxCoordinate {
			return s, &ParseError{Reason: fmt.Sprintf("point %d (%v, %v) is beyond ±%d", j, p[0], p[1], MaxCoordinate)}
		}
		s.Points[j] = [2]float64{p[0], p[1]}
	}
	return s, nil
}

// LoadFile parses the annotation document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
