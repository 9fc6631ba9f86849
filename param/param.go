/*
Package param packs MEMS pixel states into simulation parameters.

The flattened pixel sequence is cut into consecutive groups of up to
DefaultGroupSize pixels. Each group becomes one parameter whose value is the
base 3 number formed by the pixel states, with the first (lowest numbered)
pixel of the group as the least significant digit. Parameters are numbered
from FirstIndex upwards, matching the individually addressed pixel mode
(P-Flag = 2) of the optical simulation.
*/
package param

import (
	"fmt"

	"github.com/bodgit/mems/grid"
)

const (
	// DefaultGroupSize is the number of pixels packed into one parameter
	DefaultGroupSize = 15
	// MaxGroupSize is the largest group whose value fits in a uint64
	MaxGroupSize = 40
	// FirstIndex is the parameter number of the first group
	FirstIndex = 10
)

// Record is one encoded parameter.
type Record struct {
	// Index is the external parameter number
	Index int
	// Start and End are the inclusive 1-based pixel numbers of the group
	Start, End int
	// Value is the base 3 weighted sum of the group's states
	Value uint64
}

// Pixels returns the pixel range as "start-end".
func (r Record) Pixels() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Len returns the number of pixels in the group.
func (r Record) Len() int {
	return r.End - r.Start + 1
}

// Count returns the number of records produced for total pixels.
func Count(total, groupSize int) int {
	return (total + groupSize - 1) / groupSize
}

func checkGroupSize(groupSize int) {
	if groupSize < 1 || groupSize > MaxGroupSize {
		panic(fmt.Sprintf("param: group size %d not within [1, %d]", groupSize, MaxGroupSize))
	}
}

// Encode packs states into records of groupSize pixels each; the last
// record is shorter when the total is not a multiple of groupSize. It panics
// if groupSize is not within [1, MaxGroupSize].
func Encode(states []grid.State, groupSize int) []Record {
	checkGroupSize(groupSize)

	total := len(states)
	records := make([]Record, 0, Count(total, groupSize))

	for i := 0; i < total; i += groupSize {
		end := i + groupSize
		if end > total {
			end = total
		}

		var value, weight uint64 = 0, 1
		for _, s := range states[i:end] {
			value += uint64(s) * weight
			weight *= grid.NumStates
		}

		records = append(records, Record{
			Index: FirstIndex + i/groupSize,
			Start: grid.Pixel(i),
			End:   end,
			Value: value,
		})
	}

	return records
}

// Decode unpacks k states from value, least significant digit first. Any
// digits beyond k are ignored.
func Decode(value uint64, k int) []grid.State {
	states := make([]grid.State, k)
	for j := range states {
		states[j] = grid.State(value % grid.NumStates)
		value /= grid.NumStates
	}
	return states
}

// Max returns the largest value a group of k pixels can encode.
func Max(k int) uint64 {
	v := uint64(1)
	for j := 0; j < k; j++ {
		v *= grid.NumStates
	}
	return v - 1
}
