package transform

import (
	"github.com/fornellas/gxform/gcode"
)

// FindMarker returns the index of the first line whose comment is exactly marker.
func FindMarker(program gcode.Program, marker string) (int, error) {
	for i, line := range program {
		if comment, ok := line.Comment(); ok && comment == marker {
			return i, nil
		}
	}
	return 0, &MarkerNotFoundError{Marker: marker}
}

// Region is the closed range of program indexes delimited by two marker comments.
type Region struct {
	StartMarker string
	StopMarker  string
	Start       int
	Stop        int
}

// FindRegion locates both markers at the program. Start after stop gives an empty region, which
// is not an error.
func FindRegion(program gcode.Program, startMarker, stopMarker string) (Region, error) {
	start, err := FindMarker(program, startMarker)
	if err != nil {
		return Region{}, err
	}
	stop, err := FindMarker(program, stopMarker)
	if err != nil {
		return Region{}, err
	}
	return Region{
		StartMarker: startMarker,
		StopMarker:  stopMarker,
		Start:       start,
		Stop:        stop,
	}, nil
}

// Contains returns true if i is within [Start, Stop].
func (r Region) Contains(i int) bool {
	return i >= r.Start && i <= r.Stop
}

// Empty returns true when the start marker comes after the stop marker.
func (r Region) Empty() bool {
	return r.Start > r.Stop
}
