/*
Package mems is a library for authoring pixel patterns for a MEMS mirror
array and exporting them as parameters for an optical simulation.

A Session owns a single pixel grid. Callers mutate it with pixel, fill and
image import events and ask it to calculate the parameter table whenever it
is needed; a calculation never changes the grid.
*/
package mems

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bodgit/mems/bitmap"
	"github.com/bodgit/mems/grid"
	"github.com/bodgit/mems/param"
	"github.com/bodgit/mems/preview"
	"github.com/bodgit/mems/table"
)

const (
	// MinAngle is the smallest configurable tilt angle in degrees
	MinAngle = -90
	// MaxAngle is the largest configurable tilt angle in degrees
	MaxAngle = 90
)

var (
	// ErrAngleRange is returned when a tilt angle is outside [MinAngle, MaxAngle]
	ErrAngleRange = errors.New("mems: angle out of range")
	// ErrGroupSize is returned for a group size the encoder cannot handle
	ErrGroupSize = errors.New("mems: invalid group size")
)

// AngleConfig holds the physical tilt angle, in degrees, of each state. It
// only appears in reports and has no effect on the encoded values.
type AngleConfig struct {
	Inactive int
	Positive int
	Negative int
}

// DefaultAngles returns the angles used unless configured otherwise.
func DefaultAngles() AngleConfig {
	return AngleConfig{
		Inactive: 0,
		Positive: 12,
		Negative: -12,
	}
}

// Angle returns the configured angle for s.
func (a AngleConfig) Angle(s grid.State) int {
	switch s {
	case grid.PositiveTilt:
		return a.Positive
	case grid.NegativeTilt:
		return a.Negative
	default:
		return a.Inactive
	}
}

// Validate checks every angle is within range.
func (a AngleConfig) Validate() error {
	for _, s := range []grid.State{grid.Inactive, grid.PositiveTilt, grid.NegativeTilt} {
		if v := a.Angle(s); v < MinAngle || v > MaxAngle {
			return fmt.Errorf("%w: %s angle %d not within [%d, %d]", ErrAngleRange, s, v, MinAngle, MaxAngle)
		}
	}
	return nil
}

// Config describes the array and how patterns are encoded.
type Config struct {
	Width     int
	Height    int
	GroupSize int
	Angles    AngleConfig
	Filter    bitmap.Filter

	// Orientation is used when no orientation is given explicitly
	Orientation table.Orientation
}

// DefaultConfig returns the configuration of a 64 by 48 array.
func DefaultConfig() Config {
	return Config{
		Width:     grid.DefaultWidth,
		Height:    grid.DefaultHeight,
		GroupSize: param.DefaultGroupSize,
		Angles:    DefaultAngles(),
		Filter:    bitmap.Lanczos,

		Orientation: table.ColumnsPerParameter,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", grid.ErrSize, c.Width, c.Height)
	}
	if c.GroupSize < 1 || c.GroupSize > param.MaxGroupSize {
		return fmt.Errorf("%w: %d not within [1, %d]", ErrGroupSize, c.GroupSize, param.MaxGroupSize)
	}
	return c.Angles.Validate()
}

// Session is a single interactive editing session.
type Session struct {
	config Config
	grid   *grid.Grid
	logger *log.Logger
}

// New returns a session with an empty grid.
func New(config Config, logger *log.Logger) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.New(config.Width, config.Height)
	if err != nil {
		return nil, err
	}

	return &Session{
		config: config,
		grid:   g,
		logger: logger,
	}, nil
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.config
}

// Set sets the pixel at (x, y).
func (s *Session) Set(x, y int, state grid.State) error {
	i, err := s.grid.Index(x, y)
	if err != nil {
		return err
	}
	return s.SetIndex(i, state)
}

// SetIndex sets the pixel at flattened index i.
func (s *Session) SetIndex(i int, state grid.State) error {
	x, y, err := s.grid.Coords(i)
	if err != nil {
		return err
	}
	if err := s.grid.SetIndex(i, state); err != nil {
		return err
	}
	s.logger.Printf("Set pixel %d (%d, %d) to %s\n", grid.Pixel(i), x, y, state)
	return nil
}

// At returns the state of the pixel at (x, y).
func (s *Session) At(x, y int) (grid.State, error) {
	return s.grid.At(x, y)
}

// Fill sets every pixel to state.
func (s *Session) Fill(state grid.State) error {
	if err := s.grid.Fill(state); err != nil {
		return err
	}
	s.logger.Printf("Filled %d pixels with %s\n", s.grid.Len(), state)
	return nil
}

// Clear sets every pixel to Inactive.
func (s *Session) Clear() {
	s.grid.Clear()
	s.logger.Printf("Cleared %d pixels\n", s.grid.Len())
}

// Snapshot returns a copy of the current pixel states.
func (s *Session) Snapshot() []grid.State {
	return s.grid.Snapshot()
}

// ImportImage decodes an image from r and replaces every pixel with its
// thresholded contents. On failure the grid is left unchanged.
func (s *Session) ImportImage(r io.Reader) error {
	states, err := bitmap.Read(r, s.grid.Width(), s.grid.Height(), s.config.Filter)
	if err != nil {
		return err
	}
	return s.grid.Load(states)
}

// LoadImage imports the image stored in file.
func (s *Session) LoadImage(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("%w: %w", bitmap.ErrDecode, err)
	}
	defer f.Close()

	if err := s.ImportImage(f); err != nil {
		return err
	}
	s.logger.Printf("Image loaded: %s\n", file)

	return nil
}

// Result is one calculation of the parameter table. It is stale as soon as
// the grid changes.
type Result struct {
	Records []param.Record
	Active  int
	Total   int
}

// Calculate encodes the current grid.
func (s *Session) Calculate() Result {
	snapshot := s.grid.Snapshot()
	return Result{
		Records: param.Encode(snapshot, s.config.GroupSize),
		Active:  grid.Active(snapshot),
		Total:   len(snapshot),
	}
}

// Export calculates the parameters and writes them to w as tab separated
// values.
func (s *Session) Export(w io.Writer, o table.Orientation) error {
	_, err := table.Format(s.Calculate().Records, o).WriteTo(w)
	return err
}

// Preview writes a PNG rendering of the grid to w.
func (s *Session) Preview(w io.Writer, scale int) error {
	return preview.Encode(w, s.grid.Snapshot(), s.grid.Width(), s.grid.Height(), scale)
}
