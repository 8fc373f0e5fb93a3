package transform

import (
	"fmt"

	"github.com/fornellas/gxform/gcode"
	iFmt "github.com/fornellas/gxform/internal/fmt"
)

// Shift holds the parameters a region is transformed with.
type Shift struct {
	Degrees float64
	X       float64
	Y       float64
	// XCenter and YCenter are the center of rotation.
	XCenter float64
	YCenter float64
}

// Matrix returns the transformation matrix for the shift.
func (s Shift) Matrix() Matrix {
	if s.XCenter == 0 && s.YCenter == 0 {
		return NewMatrix(s.Degrees, s.X, s.Y)
	}
	return NewMatrixAbout(s.Degrees, s.XCenter, s.YCenter, s.X, s.Y)
}

func (s Shift) String() string {
	str := fmt.Sprintf(
		"SHIFT X:%s, Y:%s, theta:%s",
		iFmt.SprintFloat(s.X, 4), iFmt.SprintFloat(s.Y, 4), iFmt.SprintFloat(s.Degrees, 4),
	)
	if s.XCenter != 0 || s.YCenter != 0 {
		str += fmt.Sprintf(
			", center X:%s, Y:%s",
			iFmt.SprintFloat(s.XCenter, 4), iFmt.SprintFloat(s.YCenter, 4),
		)
	}
	return str
}

// Annotate appends the shift to the comments of the start and stop marker lines of program.
func Annotate(program gcode.Program, region Region, shift Shift) {
	program[region.Start].SetComment(region.StartMarker + " " + shift.String())
	program[region.Stop].SetComment(region.StopMarker + " " + shift.String())
}
