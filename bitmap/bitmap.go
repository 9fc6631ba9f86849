/*
Package bitmap converts raster images into MEMS pixel states.

An image is resized to exactly the array dimensions, converted to luminance
and cut with a hard threshold: no dithering and no intermediate states. Dark
pixels become PositiveTilt and bright pixels NegativeTilt, so an imported
image never contains Inactive cells.

Images are top-left origin while the array numbers its pixels from the
bottom-left, so rows are flipped while copying.
*/
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"strings"

	"github.com/bodgit/mems/grid"
	"github.com/disintegration/gift"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Threshold is the luminance a pixel must exceed to count as bright.
const Threshold = 128

// Mapping from thresholded luminance to mirror state
const (
	Dark   = grid.PositiveTilt
	Bright = grid.NegativeTilt
)

var (
	// ErrDecode is returned when an image cannot be decoded or resized
	ErrDecode = errors.New("bitmap: cannot decode image")
	// ErrFilter is returned by ParseFilter for unrecognised input
	ErrFilter = errors.New("bitmap: unknown filter")
)

// Filter is the resampling filter used when resizing.
type Filter int

// Resampling filters
const (
	Lanczos Filter = iota
	Cubic
	Linear
	Box
	Nearest
)

var filterNames = []string{"lanczos", "cubic", "linear", "box", "nearest"}

func (f Filter) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return "unknown"
	}
	return filterNames[f]
}

// ParseFilter parses a filter name.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range filterNames {
		if s == name {
			return Filter(i), nil
		}
	}
	return Lanczos, fmt.Errorf("%w: %q", ErrFilter, s)
}

func (f Filter) resampling() gift.Resampling {
	switch f {
	case Cubic:
		return gift.CubicResampling
	case Linear:
		return gift.LinearResampling
	case Box:
		return gift.BoxResampling
	case Nearest:
		return gift.NearestNeighborResampling
	default:
		return gift.LanczosResampling
	}
}

// Decode reads an image in any of the registered formats.
func Decode(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return m, nil
}

// Luminance resizes m to width by height using f and returns its luminance.
// Alpha is ignored, a transparent white pixel is as bright as an opaque one.
// The result is in image orientation, row 0 at the top.
func Luminance(m image.Image, width, height int, f Filter) (*image.Gray, error) {
	if m == nil || m.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cannot resize to %dx%d", ErrDecode, width, height)
	}

	g := gift.New(
		gift.Resize(width, height, f.resampling()),
		gift.Grayscale(),
	)
	dst := image.NewGray(g.Bounds(m.Bounds()))
	g.Draw(dst, opaque(m))

	return dst, nil
}

// opaque returns m with every pixel made fully opaque, keeping the straight
// colour of translucent pixels.
func opaque(m image.Image) image.Image {
	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		return m
	}

	b := m.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			c.A = 0xff
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// Import converts m into width*height states in grid order.
func Import(m image.Image, width, height int, f Filter) ([]grid.State, error) {
	gray, err := Luminance(m, width, height, f)
	if err != nil {
		return nil, err
	}

	states := make([]grid.State, width*height)
	for y := 0; y < height; y++ {
		row := height - 1 - y
		for x := 0; x < width; x++ {
			s := Dark
			if gray.GrayAt(x, row).Y > Threshold {
				s = Bright
			}
			states[y*width+x] = s
		}
	}

	return states, nil
}

// Read decodes an image from r and converts it as Import does.
func Read(r io.Reader, width, height int, f Filter) ([]grid.State, error) {
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Import(m, width, height, f)
}
