package gcode

// Axis holds the last known absolute position of a single axis.
type Axis struct {
	Value float64
	// Known is false until the axis is given by a motion command.
	Known bool
}

// KnownAxis returns an Axis at given value.
func KnownAxis(value float64) Axis {
	return Axis{Value: value, Known: true}
}

// Position is a snapshot of the tool position in work coordinates. G-Code axis words are modal:
// an axis keeps its last commanded position until it is given again.
type Position struct {
	X Axis
	Y Axis
	Z Axis
}

// Update returns the position after the given line. Axes given by the line replace the previous
// values, others are carried over. Non-motion lines do not change the position.
func (p Position) Update(line *Line) (Position, error) {
	if !line.IsMotion() {
		return p, nil
	}
	for _, axis := range []struct {
		letter rune
		axis   *Axis
	}{
		{'X', &p.X},
		{'Y', &p.Y},
		{'Z', &p.Z},
	} {
		number, err := line.Argument(axis.letter)
		if err != nil {
			return Position{}, err
		}
		if number != nil {
			*axis.axis = KnownAxis(*number)
		}
	}
	return p, nil
}

// Track returns the position after each line of the program.
func Track(program Program) ([]Position, error) {
	positions := make([]Position, len(program))
	var position Position
	for i, line := range program {
		var err error
		position, err = position.Update(line)
		if err != nil {
			return nil, err
		}
		positions[i] = position
	}
	return positions, nil
}
