package mems

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bodgit/mems/grid"
	"github.com/bodgit/mems/param"
	"github.com/bodgit/mems/table"
)

const defaultPreviewScale = 15

// ErrCommand is returned for an unknown or malformed script command
var ErrCommand = errors.New("mems: bad command")

func badArgs(cmd, usage string) error {
	return fmt.Errorf("%w: usage: %s %s", ErrCommand, cmd, usage)
}

func atoi(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrCommand, s)
	}
	return i, nil
}

// Run reads commands from r, one per line, and executes them in order.
// Output goes to out. A failing command is reported on errOut along with its
// line number and does not stop the session; only an error reading r is
// returned.
func (s *Session) Run(r io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		if err := s.Exec(scanner.Text(), out); err != nil {
			fmt.Fprintf(errOut, "line %d: %v\n", line, err)
		}
	}
	return scanner.Err()
}

// Exec executes a single command. Blank lines and lines starting with # are
// ignored. The commands are:
//
//	set X Y STATE         set the pixel at (X, Y)
//	index I STATE         set the pixel at flattened index I
//	get X Y               print the state of the pixel at (X, Y)
//	fill STATE            set every pixel
//	clear                 set every pixel to inactive
//	load PATH             import an image
//	calc                  print the active pixel summary
//	info                  print the configuration report
//	export [ORIENTATION]  print the parameter table
//	preview PATH [SCALE]  write a PNG rendering of the grid
//	decode VALUE [DIGITS] print the states packed in a parameter value
func (s *Session) Exec(line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "set":
		if len(args) != 3 {
			return badArgs(cmd, "X Y STATE")
		}
		x, err := atoi(args[0])
		if err != nil {
			return err
		}
		y, err := atoi(args[1])
		if err != nil {
			return err
		}
		state, err := grid.ParseState(args[2])
		if err != nil {
			return err
		}
		return s.Set(x, y, state)
	case "index":
		if len(args) != 2 {
			return badArgs(cmd, "I STATE")
		}
		i, err := atoi(args[0])
		if err != nil {
			return err
		}
		state, err := grid.ParseState(args[1])
		if err != nil {
			return err
		}
		return s.SetIndex(i, state)
	case "get":
		if len(args) != 2 {
			return badArgs(cmd, "X Y")
		}
		x, err := atoi(args[0])
		if err != nil {
			return err
		}
		y, err := atoi(args[1])
		if err != nil {
			return err
		}
		state, err := s.At(x, y)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%d,%d\t%s\n", x, y, state)
		return err
	case "fill":
		if len(args) != 1 {
			return badArgs(cmd, "STATE")
		}
		state, err := grid.ParseState(args[0])
		if err != nil {
			return err
		}
		return s.Fill(state)
	case "clear":
		if len(args) != 0 {
			return badArgs(cmd, "")
		}
		s.Clear()
		return nil
	case "load":
		if len(args) == 0 {
			return badArgs(cmd, "PATH")
		}
		return s.LoadImage(strings.Join(args, " "))
	case "calc":
		_, err := fmt.Fprintln(out, Status(s.Calculate()))
		return err
	case "info":
		_, err := io.WriteString(out, s.Report(s.Calculate()))
		return err
	case "export":
		o := s.config.Orientation
		switch len(args) {
		case 0:
		case 1:
			var err error
			if o, err = table.ParseOrientation(args[0]); err != nil {
				return err
			}
		default:
			return badArgs(cmd, "[rows|columns]")
		}
		return s.Export(out, o)
	case "preview":
		if len(args) < 1 || len(args) > 2 {
			return badArgs(cmd, "PATH [SCALE]")
		}
		scale := defaultPreviewScale
		if len(args) == 2 {
			var err error
			if scale, err = atoi(args[1]); err != nil {
				return err
			}
		}
		return s.WritePreview(args[0], scale)
	case "decode":
		if len(args) < 1 || len(args) > 2 {
			return badArgs(cmd, "VALUE [DIGITS]")
		}
		value, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a parameter value", ErrCommand, args[0])
		}
		digits := s.config.GroupSize
		if len(args) == 2 {
			if digits, err = atoi(args[1]); err != nil {
				return err
			}
		}
		return WriteDecoded(out, value, digits)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrCommand, fields[0])
	}
}

// WritePreview writes a PNG rendering of the grid to file.
func (s *Session) WritePreview(file string, scale int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.Preview(f, scale); err != nil {
		return err
	}
	s.logger.Printf("Preview written: %s\n", file)

	return f.Close()
}

// WriteTable writes the parameter table in orientation o to file.
func (s *Session) WriteTable(file string, o table.Orientation) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.Export(f, o); err != nil {
		return err
	}
	s.logger.Printf("Table written: %s\n", file)

	return f.Close()
}

// WriteDecoded writes the states packed in value, one per line, each
// prefixed with its position within the group.
func WriteDecoded(w io.Writer, value uint64, digits int) error {
	if digits < 1 || digits > param.MaxGroupSize {
		return fmt.Errorf("%w: %d digits not within [1, %d]", ErrGroupSize, digits, param.MaxGroupSize)
	}
	if value > param.Max(digits) {
		return fmt.Errorf("%w: %d does not fit in %d digits", ErrCommand, value, digits)
	}
	for j, st := range param.Decode(value, digits) {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", j+1, int(st), st); err != nil {
			return err
		}
	}
	return nil
}
