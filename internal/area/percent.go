package area

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrDegenerateInput is matched by errors.Is for every DegenerateInputError.
var ErrDegenerateInput = errors.New("degenerate input")

// DegenerateInputError reports that no label covers any pixel, so shares of
// the total are undefined.
type DegenerateInputError struct {
	Labels []string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("total area is zero: no pixels matched any of [%s]", strings.Join(e.Labels, ", "))
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// LabelPercentage is one label's share of the total area, from 0 to 100.
type LabelPercentage struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// Percentages holds one entry per label, in the order of the source Areas.
type Percentages []LabelPercentage

// Percent returns the share recorded for label.
func (p Percentages) Percent(label string) (float64, bool) {
	for _, lp := range p {
		if lp.Label == label {
			return lp.Percent, true
		}
	}
	return 0, false
}

// Values returns the percentages in order.
func (p Percentages) Values() []float64 {
	out := make([]float64, len(p))
	for i, lp := range p {
		out[i] = lp.Percent
	}
	return out
}

// ComputePercentages converts areas into percentages of their total.
// A zero total returns a *DegenerateInputError instead of NaN values.
func ComputePercentages(areas Areas) (Percentages, error) {
	counts := make([]float64, len(areas))
	for i, la := range areas {
		if la.Pixels < 0 {
			return nil, fmt.Errorf("negative area %d for %q", la.Pixels, la.Label)
		}
		counts[i] = float64(la.Pixels)
	}

	total := floats.Sum(counts)
	if total == 0 {
		return nil, &DegenerateInputError{Labels: areas.Labels()}
	}

	out := make(Percentages, len(areas))
	for i, la := range areas {
		out[i] = LabelPercentage{Label: la.Label, Percent: counts[i] / total * 100}
	}
	return out, nil
}
