package mems

import (
	"fmt"
	"strings"

	"github.com/bodgit/mems/grid"
)

// Report returns the descriptive summary shown alongside the parameter
// table.
func (s *Session) Report(r Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "MEMS Configuration: %d x %d pixels\n", s.config.Width, s.config.Height)
	fmt.Fprintf(&b, "Total pixels: %d\n", r.Total)
	fmt.Fprintf(&b, "Parameters: %d (%d pixels each)\n", len(r.Records), s.config.GroupSize)
	b.WriteString("P-Flag: 2 (Individual pixel addressing)\n")
	for _, st := range []grid.State{grid.Inactive, grid.PositiveTilt, grid.NegativeTilt} {
		fmt.Fprintf(&b, "Angle %d (%s): %d°\n", int(st), stateLabel(st), s.config.Angles.Angle(st))
	}

	return b.String()
}

// Status returns the one line active pixel summary.
func Status(r Result) string {
	return fmt.Sprintf("Active pixels: %d/%d", r.Active, r.Total)
}

func stateLabel(s grid.State) string {
	switch s {
	case grid.PositiveTilt:
		return "On"
	case grid.NegativeTilt:
		return "Off"
	default:
		return "Inactive"
	}
}
