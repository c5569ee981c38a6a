package area

import (
	"image"
	"sort"

	"github.com/ironsheep/heart-area-tools/internal/annotation"
)

// Filled is the gray value of a filled mask pixel. Empty pixels are zero.
const Filled = 0xff

// Mask is a binary canvas the size of the annotated image.
type Mask struct {
	img *image.Gray
}

// NewMask returns an empty width × height mask.
func NewMask(width, height int) *Mask {
	return &Mask{img: image.NewGray(image.Rect(0, 0, width, height))}
}

// Bounds returns the mask extent, always anchored at the origin.
func (m *Mask) Bounds() image.Rectangle { return m.img.Rect }

// Gray exposes the backing image. Filled pixels hold Filled, all others 0.
func (m *Mask) Gray() *image.Gray { return m.img }

// IsFilled reports whether (x, y) is filled. Out-of-bounds pixels are empty.
func (m *Mask) IsFilled(x, y int) bool {
	if !image.Pt(x, y).In(m.img.Rect) {
		return false
	}
	return m.img.Pix[m.img.PixOffset(x, y)] != 0
}

// Count returns the number of filled pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.img.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// edge is a non-horizontal polygon side stored top to bottom (y0 < y1).
type edge struct {
	x0, y0, x1, y1 int64
	// dir is +1 when the polygon runs downward along this side, -1 otherwise.
	dir int
}

// firstPixel returns the smallest column whose center lies at or right of
// the point where e crosses the center line of row y.
//
// The crossing is x0 + (y + 1/2 - y0)·(x1 - x0)/(y1 - y0) = num/den, kept as
// an exact fraction so no rounding depends on the canvas size.
func (e edge) firstPixel(y int64) int64 {
	dy := e.y1 - e.y0
	den := 2 * dy
	num := 2*e.x0*dy + (2*(y-e.y0)+1)*(e.x1-e.x0)
	// x + 1/2 >= num/den  <=>  x >= (2·num - den) / (2·den)
	return ceilDiv(2*num-den, 2*den)
}

// ceilDiv rounds a/b toward positive infinity. b must be positive.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

type crossing struct {
	x   int64
	dir int
}

// Rasterizer fills polygons into masks of one fixed size. It keeps scratch
// buffers between calls and is not safe for concurrent use; give each
// goroutine its own.
type Rasterizer struct {
	rect  image.Rectangle
	edges []edge
	xs    []crossing
}

// NewRasterizer returns a rasterizer for width × height masks.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{rect: image.Rect(0, 0, width, height)}
}

// Fill ORs the closed polygon through pts into m. Pixels already filled stay
// filled, so several polygons filled into one mask produce their union.
// Fewer than three points enclose no area and leave m untouched.
//
// A pixel is filled when its center is inside the polygon under the nonzero
// winding rule. A center lying exactly on a side counts as inside when that
// side bounds the polygon on the left and outside when it bounds it on the
// right. Integer vertices never put a center on a vertex row, so no further
// tie rule is needed. Only rows and columns inside the canvas are visited;
// coordinates beyond ±annotation.MaxCoordinate are clamped to it.
func (r *Rasterizer) Fill(m *Mask, pts []image.Point) {
	if len(pts) < 3 {
		return
	}
	if m.img.Rect != r.rect {
		panic("area: mask size does not match rasterizer")
	}

	r.edges = r.edges[:0]
	top, bottom := int64(r.rect.Max.Y), int64(0)
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		e := edge{
			x0: clampCoord(p.X), y0: clampCoord(p.Y),
			x1: clampCoord(q.X), y1: clampCoord(q.Y),
			dir: 1,
		}
		if e.y0 == e.y1 {
			// Horizontal sides never cross a row center.
			continue
		}
		if e.y0 > e.y1 {
			e = edge{x0: e.x1, y0: e.y1, x1: e.x0, y1: e.y0, dir: -1}
		}
		r.edges = append(r.edges, e)
		top = min(top, e.y0)
		bottom = max(bottom, e.y1)
	}

	top = max(top, 0)
	bottom = min(bottom, int64(r.rect.Max.Y))
	for y := top; y < bottom; y++ {
		r.xs = r.xs[:0]
		for _, e := range r.edges {
			if y >= e.y0 && y < e.y1 {
				r.xs = append(r.xs, crossing{x: e.firstPixel(y), dir: e.dir})
			}
		}
		sort.Slice(r.xs, func(i, j int) bool { return r.xs[i].x < r.xs[j].x })

		winding := 0
		for i := 0; i+1 < len(r.xs); i++ {
			winding += r.xs[i].dir
			if winding != 0 {
				r.fillSpan(m, int(y), r.xs[i].x, r.xs[i+1].x)
			}
		}
	}
}

// fillSpan fills columns [from, to) of row y, clipped to the canvas.
func (r *Rasterizer) fillSpan(m *Mask, y int, from, to int64) {
	from = max(from, 0)
	to = min(to, int64(r.rect.Max.X))
	if from >= to {
		return
	}
	row := m.img.Pix[y*m.img.Stride:]
	for x := from; x < to; x++ {
		row[x] = Filled
	}
}

func clampCoord(v int) int64 {
	return min(max(int64(v), -annotation.MaxCoordinate), annotation.MaxCoordinate)
}
