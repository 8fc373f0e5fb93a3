package gcode

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseLine(t *testing.T, gcode string) *Line {
	t.Helper()
	program, err := ReadProgram(strings.NewReader(gcode))
	require.NoError(t, err)
	require.Len(t, program, 1)
	return program[0]
}

func TestLineSetArgument(t *testing.T) {
	testCases := []struct {
		gcode     string
		arguments map[rune]float64
		expected  string
	}{
		{
			gcode:     "G1 X10 Y20 ; keep",
			arguments: map[rune]float64{'X': 1.5, 'Y': -2},
			expected:  "G1 X1.5 Y-2 ; keep",
		},
		{
			gcode:     "G1 Z0.2 F300",
			arguments: map[rune]float64{'X': 1, 'Y': 2},
			expected:  "G1 X1 Y2 Z0.2 F300",
		},
		{
			gcode:     "G1Y10",
			arguments: map[rune]float64{'X': 3},
			expected:  "G1X3Y10",
		},
		{
			gcode:     "N10 Z5",
			arguments: map[rune]float64{'X': 1},
			expected:  "N10 X1 Z5",
		},
		{
			gcode:     "  Z5",
			arguments: map[rune]float64{'X': 1},
			expected:  "  X1 Z5",
		},
		{
			gcode:     "G1 E2 Y1",
			arguments: map[rune]float64{'X': 4},
			expected:  "G1 X4 E2 Y1",
		},
		{
			gcode:     "G1 X1.23456 Y2",
			arguments: map[rune]float64{'X': 1.23456, 'Y': 2},
			expected:  "G1 X1.23456 Y2",
		},
		{
			gcode:     "G1 X1 Y1 E0.1*45",
			arguments: map[rune]float64{'X': 2},
			expected:  "G1 X2 Y1 E0.1*62",
		},
		{
			gcode:     "N3 G1 Z1*10",
			arguments: map[rune]float64{'X': 2, 'Y': 0},
			expected:  "N3 G1 X2 Y0 Z1*99",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.gcode, func(t *testing.T) {
			line := parseLine(t, tc.gcode)
			for _, letter := range []rune{'X', 'Y', 'Z'} {
				if number, ok := tc.arguments[letter]; ok {
					require.NoError(t, line.SetArgument(letter, number))
				}
			}
			require.Equal(t, tc.expected, line.String())
			for letter, number := range tc.arguments {
				value, err := line.Argument(letter)
				require.NoError(t, err)
				require.NotNil(t, value)
				require.Equal(t, number, *value)
			}
		})
	}
}

func TestLineSetArgumentErrors(t *testing.T) {
	line := parseLine(t, "; comment")
	require.ErrorContains(t, line.SetArgument('X', 1), "can't set argument X for line without command")

	line = parseLine(t, "G1 X1 X2")
	require.ErrorContains(t, line.SetArgument('X', 1), "duplicated letter X")
}

func TestLineComment(t *testing.T) {
	testCases := []struct {
		gcode    string
		comment  string
		expected string
	}{
		{"G1 X1 ; START", "START SHIFT", "G1 X1 ; START SHIFT"},
		{"G1 X1 ;START", "START SHIFT", "G1 X1 ;START SHIFT"},
		{"G1 X1 ( START )", "START SHIFT", "G1 X1 ( START SHIFT )"},
		{"(a) G1 (b)", "c", "(c) G1 (b)"},
		{"G1 X1", "START", "G1 X1 ; START"},
		{"", "START", "; START"},
		{`M862.3 P "MK3S" ; START`, "START SHIFT", `M862.3 P "MK3S" ; START SHIFT`},
	}

	for _, tc := range testCases {
		t.Run(tc.gcode, func(t *testing.T) {
			program, err := ReadProgram(strings.NewReader(tc.gcode + "\n"))
			require.NoError(t, err)
			require.Len(t, program, 1)
			line := program[0]
			line.SetComment(tc.comment)
			require.Equal(t, tc.expected, line.String())
			text, ok := line.Comment()
			require.True(t, ok)
			require.Equal(t, tc.comment, text)
		})
	}
}

func TestLineCopy(t *testing.T) {
	line := parseLine(t, "G1 X1 Y2 ; foo")
	lineCopy := line.Copy()

	require.NoError(t, lineCopy.SetArgument('X', 5))
	require.NoError(t, lineCopy.SetArgument('Z', 3))
	lineCopy.SetComment("bar")

	require.Equal(t, "G1 X5 Y2 Z3 ; bar", lineCopy.String())
	require.Equal(t, "G1X5Y2Z3", lineCopy.Block.String())
	require.Equal(t, "G1 X1 Y2 ; foo", line.String())
	require.Equal(t, "G1X1Y2", line.Block.String())
}

func TestLineArguments(t *testing.T) {
	arguments, err := parseLine(t, "G1 X1 Y2 F300").Arguments()
	require.NoError(t, err)
	require.Equal(t, map[rune]float64{'X': 1, 'Y': 2, 'F': 300}, arguments)

	_, err = parseLine(t, "G1 X1 X2").Arguments()
	require.ErrorContains(t, err, "multiple arguments for letter X")

	arguments, err = parseLine(t, "$H").Arguments()
	require.NoError(t, err)
	require.Empty(t, arguments)
}

func TestLineChecksum(t *testing.T) {
	// not mutated: checksum is kept as is, even if wrong
	line := parseLine(t, "G1 X1 Y1*0")
	require.Equal(t, "G1 X1 Y1*0", line.String())

	require.NoError(t, line.SetArgument('X', 1))
	require.Equal(t, "G1 X1 Y1*"+fmt.Sprint(checksum("G1 X1 Y1")), line.String())
}

func TestLineTextArguments(t *testing.T) {
	line := parseLine(t, `M486 S0 A"cube" X1`)
	arguments, err := line.Arguments()
	require.NoError(t, err)
	require.Equal(t, map[rune]float64{'S': 0, 'X': 1}, arguments)
	require.False(t, line.HasArgument('A'))

	line = parseLine(t, "G28 X Y")
	require.False(t, line.HasArgument('X', 'Y'))
	require.Len(t, line.Block.Words(), 3)
}
