/*
Package preview renders a MEMS pixel pattern as an image in display
orientation.

Each mirror is drawn as a square block using a three color palette: gray for
Inactive, green for PositiveTilt and red for NegativeTilt. Pixel 1 is drawn
in the bottom-left corner, so grid rows are flipped relative to image rows.
*/
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/bodgit/mems/grid"
)

// Palette is indexed by grid.State
var Palette = color.Palette{
	color.RGBA{0x80, 0x80, 0x80, 0xff}, // Inactive
	color.RGBA{0x00, 0x80, 0x00, 0xff}, // PositiveTilt
	color.RGBA{0xff, 0x00, 0x00, 0xff}, // NegativeTilt
}

var (
	errWrongLength = errors.New("preview: states do not match dimensions")
	errBadScale    = errors.New("preview: scale must be positive")
	errBadState    = errors.New("preview: invalid state")
)

// Image renders states, in grid order, as a paletted image where every cell
// is a scale by scale block.
func Image(states []grid.State, width, height, scale int) (*image.Paletted, error) {
	if width <= 0 || height <= 0 || len(states) != width*height {
		return nil, errWrongLength
	}
	if scale <= 0 {
		return nil, errBadScale
	}

	m := image.NewPaletted(image.Rect(0, 0, width*scale, height*scale), Palette)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := states[y*width+x]
			if !s.Valid() {
				return nil, errBadState
			}

			dx := x * scale
			dy := (height - 1 - y) * scale

			for py := 0; py < scale; py++ {
				i := m.PixOffset(dx, dy+py)
				for px := 0; px < scale; px++ {
					m.Pix[i+px] = uint8(s)
				}
			}
		}
	}

	return m, nil
}

// Encode writes the rendered states to w as a PNG.
func Encode(w io.Writer, states []grid.State, width, height, scale int) error {
	m, err := Image(states, width, height, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, m)
}
