package transform

import (
	"fmt"

	"github.com/fornellas/gxform/gcode"
)

// Apply returns a copy of program where motion lines with indexes within [start, stop] that give
// any of X, Y or Z have their X and Y set to the tracked position transformed by matrix. The
// position is tracked through the whole program, so lines before start still count. Z and other
// arguments are not changed, and program is never mutated.
func Apply(program gcode.Program, matrix Matrix, start, stop int) (gcode.Program, error) {
	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	output := program.Copy()
	var position gcode.Position
	for i, line := range program {
		if !line.IsMotion() {
			continue
		}

		var err error
		position, err = position.Update(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}

		if i < start || i > stop {
			continue
		}

		if !line.HasArgument('X', 'Y', 'Z') {
			continue
		}

		if line.IsIncremental() {
			return nil, fmt.Errorf("%w: line %d: %s: distance mode incremental unsupported", ErrMalformedInput, line.Number, line)
		}
		if !position.X.Known || !position.Y.Known {
			return nil, fmt.Errorf("%w: line %d: %s: X and Y must be known before transforming", ErrMalformedInput, line.Number, line)
		}

		x, y := matrix.Transform(position.X.Value, position.Y.Value)
		if err := output[i].SetArgument('X', x); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		if err := output[i].SetArgument('Y', y); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
	}
	return output, nil
}
