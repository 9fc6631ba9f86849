/*
Package grid implements the pixel state grid of a MEMS mirror array.

Cells are numbered the way the optical simulation expects: pixel 1 is the
bottom-left mirror and numbering increases along +X first and then along +Y.
The flattened index of the cell at (x, y) is therefore y*width + x with y
counting upwards from the bottom row, which is the opposite of the usual
raster order. Anything drawing the grid top-down must flip the Y axis.
*/
package grid

import (
	"errors"
	"fmt"
)

const (
	// DefaultWidth is the number of mirrors along X of the default array
	DefaultWidth = 64
	// DefaultHeight is the number of mirrors along Y of the default array
	DefaultHeight = 48
)

var (
	// ErrOutOfRange is returned for any coordinate, index or state that
	// falls outside the grid
	ErrOutOfRange = errors.New("grid: out of range")
	// ErrSize is returned when creating a grid with a non-positive dimension
	ErrSize = errors.New("grid: invalid size")
	// ErrLength is returned when loading a state sequence of the wrong length
	ErrLength = errors.New("grid: wrong number of states")
)

// Grid holds the state of every mirror in a width by height array.
type Grid struct {
	width, height int
	cells         []State
}

// New returns a grid of the given dimensions with every cell Inactive.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]State, width*height),
	}, nil
}

// Default returns an empty grid of DefaultWidth by DefaultHeight.
func Default() *Grid {
	g, _ := New(DefaultWidth, DefaultHeight)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the total number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Index returns the flattened index of (x, y).
func (g *Grid) Index(x, y int) (int, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, fmt.Errorf("%w: (%d, %d) not within %dx%d", ErrOutOfRange, x, y, g.width, g.height)
	}
	return y*g.width + x, nil
}

// Coords returns the (x, y) position of flattened index i.
func (g *Grid) Coords(i int) (int, int, error) {
	if err := g.checkIndex(i); err != nil {
		return 0, 0, err
	}
	return i % g.width, i / g.width, nil
}

// Pixel returns the 1-based pixel number used externally for index i.
func Pixel(i int) int {
	return i + 1
}

func (g *Grid) checkIndex(i int) error {
	if i < 0 || i >= len(g.cells) {
		return fmt.Errorf("%w: index %d not within [0, %d)", ErrOutOfRange, i, len(g.cells))
	}
	return nil
}

func checkState(s State) error {
	if !s.Valid() {
		return fmt.Errorf("%w: state %d", ErrOutOfRange, uint8(s))
	}
	return nil
}

// Set sets the cell at (x, y) to s.
func (g *Grid) Set(x, y int, s State) error {
	i, err := g.Index(x, y)
	if err != nil {
		return err
	}
	return g.SetIndex(i, s)
}

// SetIndex sets the cell at flattened index i to s.
func (g *Grid) SetIndex(i int, s State) error {
	if err := g.checkIndex(i); err != nil {
		return err
	}
	if err := checkState(s); err != nil {
		return err
	}
	g.cells[i] = s
	return nil
}

// At returns the state of the cell at (x, y).
func (g *Grid) At(x, y int) (State, error) {
	i, err := g.Index(x, y)
	if err != nil {
		return Inactive, err
	}
	return g.cells[i], nil
}

// Fill sets every cell to s.
func (g *Grid) Fill(s State) error {
	if err := checkState(s); err != nil {
		return err
	}
	for i := range g.cells {
		g.cells[i] = s
	}
	return nil
}

// Clear sets every cell to Inactive.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Inactive
	}
}

// Load replaces every cell with the given states, which must be in flattened
// index order. Either all cells are replaced or none are.
func (g *Grid) Load(states []State) error {
	if len(states) != len(g.cells) {
		return fmt.Errorf("%w: got %d, want %d", ErrLength, len(states), len(g.cells))
	}
	for _, s := range states {
		if err := checkState(s); err != nil {
			return err
		}
	}
	copy(g.cells, states)
	return nil
}

// Snapshot returns a copy of all cell states in flattened index order.
func (g *Grid) Snapshot() []State {
	s := make([]State, len(g.cells))
	copy(s, g.cells)
	return s
}

// Active returns the number of cells that are not Inactive.
func (g *Grid) Active() int {
	return Active(g.cells)
}

// Active counts the states in s that are not Inactive.
func Active(s []State) (n int) {
	for _, c := range s {
		if c != Inactive {
			n++
		}
	}
	return
}
