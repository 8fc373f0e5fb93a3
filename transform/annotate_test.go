package transform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftString(t *testing.T) {
	require.Equal(t, "SHIFT X:50, Y:50, theta:45", Shift{Degrees: 45, X: 50, Y: 50}.String())
	require.Equal(t, "SHIFT X:1.5, Y:-2, theta:0.25", Shift{Degrees: 0.25, X: 1.5, Y: -2}.String())
	require.Equal(
		t,
		"SHIFT X:0, Y:0, theta:90, center X:10, Y:0",
		Shift{Degrees: 90, XCenter: 10}.String(),
	)
}

func TestShiftMatrix(t *testing.T) {
	requireMatrixInDelta(t, NewMatrix(45, 1, 2), Shift{Degrees: 45, X: 1, Y: 2}.Matrix())
	requireMatrixInDelta(
		t,
		NewMatrixAbout(45, 3, 4, 1, 2),
		Shift{Degrees: 45, X: 1, Y: 2, XCenter: 3, YCenter: 4}.Matrix(),
	)
}

func TestAnnotate(t *testing.T) {
	program := readProgram(t,
		"G0 X0 Y0",
		"G1 X1 ; START",
		"G1 X2 (keep)",
		"(STOP)",
	)
	region, err := FindRegion(program, "START", "STOP")
	require.NoError(t, err)

	Annotate(program, region, Shift{Degrees: 45, X: 50, Y: 50})

	require.Equal(t, []string{
		"G0 X0 Y0",
		"G1 X1 ; START SHIFT X:50, Y:50, theta:45",
		"G1 X2 (keep)",
		"(STOP SHIFT X:50, Y:50, theta:45)",
	}, programStrings(program))
}
