package area

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/heart-area-tools/internal/annotation"
)

// DefaultLabels is the cardiac label set the tools ship with.
var DefaultLabels = []string{
	"RA Appendage",
	"RV Myocardium",
	"Aorta",
	"RV & PA Epicardial Fat",
}

// LabelArea is the filled-pixel count of one label.
type LabelArea struct {
	Label  string `json:"label"`
	Pixels int    `json:"pixels"`
}

// Areas holds one entry per label, in label-set order.
type Areas []LabelArea

// Total sums every label's pixel count. Labels are not deduplicated against
// each other, so the total can exceed the pixels actually covered.
func (a Areas) Total() int {
	total := 0
	for _, la := range a {
		total += la.Pixels
	}
	return total
}

// Pixels returns the count recorded for label.
func (a Areas) Pixels(label string) (int, bool) {
	for _, la := range a {
		if la.Label == label {
			return la.Pixels, true
		}
	}
	return 0, false
}

// Labels returns the labels in order.
func (a Areas) Labels() []string {
	out := make([]string, len(a))
	for i, la := range a {
		out[i] = la.Label
	}
	return out
}

// LabelMask pairs a label with its composed mask.
type LabelMask struct {
	Label string
	Mask  *Mask
}

// Aggregate computes the pixel area of every label in labels.
//
// For each label a fresh size-sized mask is allocated and every shape in doc
// carrying that label is filled into it. The label's area is the filled pixel
// count of the composed mask, so overlapping polygons of one label count
// once and shape order does not matter. Shapes with labels outside the set
// are ignored; labels with no shapes get area 0.
//
// ctx is checked between shapes. A cancelled or expired context aborts the
// run and no partial result is returned.
func Aggregate(ctx context.Context, doc *annotation.Document, size image.Point, labels []string) (Areas, error) {
	masks, err := AggregateMasks(ctx, doc, size, labels)
	if err != nil {
		return nil, err
	}

	return AreasOf(masks), nil
}

// AreasOf counts the filled pixels of each mask.
func AreasOf(masks []LabelMask) Areas {
	areas := make(Areas, len(masks))
	for i, lm := range masks {
		areas[i] = LabelArea{Label: lm.Label, Pixels: lm.Mask.Count()}
	}
	return areas
}

// AggregateMasks is Aggregate without the final count. It returns the
// composed mask of every label, in label order, for callers that render them.
func AggregateMasks(ctx context.Context, doc *annotation.Document, size image.Point, labels []string) ([]LabelMask, error) {
	if doc == nil {
		return nil, fmt.Errorf("annotation document is nil")
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", size.X, size.Y)
	}
	if err := checkLabels(labels); err != nil {
		return nil, err
	}

	r := NewRasterizer(size.X, size.Y)
	out := make([]LabelMask, 0, len(labels))
	for _, label := range labels {
		m := NewMask(size.X, size.Y)
		for _, s := range doc.Shapes {
			if s.Label != label {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("aggregation aborted: %w", err)
			}
			r.Fill(m, s.Pixels())
		}
		out = append(out, LabelMask{Label: label, Mask: m})
	}
	return out, nil
}

func checkLabels(labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("label set is empty")
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l == "" {
			return fmt.Errorf("label set contains an empty label")
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("label set contains %q twice", l)
		}
		seen[l] = struct{}{}
	}
	return nil
}
