package gcode

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgramWriteTo(t *testing.T) {
	orig, err := os.ReadFile("testdata/slicer.nc")
	require.NoError(t, err)

	program, err := ReadProgram(bytes.NewReader(orig))
	require.NoError(t, err)
	require.Len(t, program, 8)

	var buf bytes.Buffer
	n, err := program.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(orig)), n)
	require.Equal(t, string(orig), buf.String())
}

func TestProgramWriteToAddsMissingNewLine(t *testing.T) {
	program, err := ReadProgram(strings.NewReader("G0 X1\nG1 X2"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = program.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, "G0 X1\nG1 X2\n", buf.String())
}

func TestProgramCopy(t *testing.T) {
	program, err := ReadProgram(strings.NewReader("G0 X1\nG1 X2 ; foo\n"))
	require.NoError(t, err)

	programCopy := program.Copy()
	require.Len(t, programCopy, len(program))
	require.NoError(t, programCopy[1].SetArgument('X', 3))
	programCopy[1].SetComment("bar")

	require.Equal(t, "G1 X3 ; bar", programCopy[1].String())
	require.Equal(t, "G1 X2 ; foo", program[1].String())
	require.Equal(t, program[0].String(), programCopy[0].String())
}
