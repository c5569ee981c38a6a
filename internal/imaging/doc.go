// Package imaging loads annotated images and renders label masks over them.
//
// Area computation only needs an image's pixel dimensions, but the same
// decoded image also backs the mask overlay, so this package returns full
// image.Image values and callers take Size from them.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. This is the coordinate
// system annotation tools store polygon vertices in.
//
// # Formats
//
// PNG, JPEG and GIF decode. Undecodable payloads are reported as
// *DecodeError so HTTP and MCP front ends can classify them.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. RenderOverlay allocates its output
// per call and never mutates its input image.
//
// # Colors
//
// Palette assigns each label in a label set a fixed color; both the pie
// chart and the overlay use it.
package imaging
