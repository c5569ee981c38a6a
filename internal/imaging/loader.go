package imaging

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// DecodeError reports image bytes that could not be decoded into pixels.
type DecodeError struct {
	// Source names the image (file path or upload name) when known.
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("failed to decode image %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("failed to decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads a PNG, JPEG or GIF image. EXIF orientation is not applied, so
// the pixel grid matches the one the annotation tool stored coordinates for.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &DecodeError{Err: fmt.Errorf("image has no pixels")}
	}
	return img, nil
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeDimensions reads only the image header and returns the canvas size.
func DecodeDimensions(r io.Reader) (image.Point, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return image.Point{}, &DecodeError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Point{}, &DecodeError{Err: fmt.Errorf("image has no pixels")}
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// Size returns the width and height of img as a point.
func Size(img image.Image) image.Point {
	return img.Bounds().Size()
}

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// The MCP server runs several tools against the same image in a session;
// the cache keeps one decode per path. Cached images are never mutated by
// this module, so sharing them between calls is safe. Masks and overlays
// are always allocated per call.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/pt_3.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/pt_3.png") // optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Open failures are returned wrapped; undecodable contents are returned as
// *DecodeError. Different spellings of the same path are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// LoadFile decodes the image at path without caching.
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Source = path
		}
		return nil, err
	}
	return img, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of the image at path, loading it into
// the cache if not already present.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	size := Size(img)
	return &DimensionsResult{
		Width:  size.X,
		Height: size.Y,
	}, nil
}
