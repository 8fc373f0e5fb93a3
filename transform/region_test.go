package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fornellas/gxform/gcode"
)

func readProgram(t *testing.T, lines ...string) gcode.Program {
	t.Helper()
	program, err := gcode.ReadProgram(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.Len(t, program, len(lines))
	return program
}

func TestFindMarker(t *testing.T) {
	program := readProgram(t,
		"; header",
		"G0 X0 Y0 ; START_TRANSFORM",
		"(START_TRANSFORM)",
		"G1 X1 ; START_TRANSFORM_2",
		"M5 ; STOP_TRANSFORM",
	)

	idx, err := FindMarker(program, "START_TRANSFORM")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	idx, err = FindMarker(program, "STOP_TRANSFORM")
	require.NoError(t, err)
	require.Equal(t, 4, idx)

	_, err = FindMarker(program, "START")
	require.ErrorIs(t, err, ErrConfiguration)
	var markerNotFoundErr *MarkerNotFoundError
	require.ErrorAs(t, err, &markerNotFoundErr)
	require.Equal(t, "START", markerNotFoundErr.Marker)
	require.ErrorContains(t, err, `"START"`)
}

func TestFindRegion(t *testing.T) {
	program := readProgram(t,
		"G0 X0 Y0",
		"G1 X1 ; START",
		"G1 X2",
		"G1 X3 ; STOP",
	)

	region, err := FindRegion(program, "START", "STOP")
	require.NoError(t, err)
	require.Equal(t, Region{StartMarker: "START", StopMarker: "STOP", Start: 1, Stop: 3}, region)
	require.False(t, region.Empty())
	require.False(t, region.Contains(0))
	require.True(t, region.Contains(1))
	require.True(t, region.Contains(2))
	require.True(t, region.Contains(3))
	require.False(t, region.Contains(4))

	region, err = FindRegion(program, "STOP", "START")
	require.NoError(t, err)
	require.True(t, region.Empty())
	for i := range program {
		require.False(t, region.Contains(i))
	}

	_, err = FindRegion(program, "MISSING", "STOP")
	require.ErrorContains(t, err, "MISSING")

	_, err = FindRegion(program, "START", "MISSING")
	require.ErrorContains(t, err, "MISSING")
}
