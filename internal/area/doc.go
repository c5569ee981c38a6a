// Package area turns labeled polygons into per-label pixel areas.
//
// The package has three parts that run in sequence:
//
//   - Mask and Rasterizer fill closed polygons into binary canvases.
//   - Aggregate builds one mask per label (union of every polygon carrying
//     that label) and counts its filled pixels.
//   - ComputePercentages normalizes the counts into shares of the total.
//
// # Fill Semantics
//
// A pixel (x, y) is filled when its center (x+½, y+½) lies inside the
// polygon under the nonzero winding rule. Crossings are computed as exact
// integer fractions, so the result never depends on the canvas size or on
// the vertex order. A center lying exactly on a side belongs to the polygon
// when that side is a left boundary and not when it is a right boundary, so
// two polygons sharing a side never both claim a pixel. Vertices are integers,
// which keeps centers off horizontal sides entirely.
//
// A polygon through (0,0), (10,0), (10,10), (0,10) therefore fills exactly
// 100 pixels, and the triangle (0,0), (10,0), (0,10) fills 45. Parts of a
// polygon outside the canvas are clipped. Polygons with fewer than three
// vertices enclose nothing and fill no pixels.
//
// # Isolation
//
// Every Aggregate call allocates its own rasterizer and masks. Nothing in
// this package is shared between calls, so concurrent requests need no
// locking.
package area
