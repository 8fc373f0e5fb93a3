package gcode

import (
	"bufio"
	"fmt"
	"io"
)

// Program is an ordered sequence of lines. Indexes are stable: transformations mutate lines in
// place, but never add, remove or reorder them.
type Program []*Line

// ReadProgram parses all of r into a Program.
func ReadProgram(r io.Reader) (Program, error) {
	return NewParser(r).Program()
}

// Copy returns a deep copy of the program.
func (p Program) Copy() Program {
	np := make(Program, len(p))
	for i, line := range p {
		np[i] = line.Copy()
	}
	return np
}

// WriteTo writes each line followed by its original new line sequence, or "\n" when it had none.
func (p Program) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, line := range p {
		newLine := line.NewLine()
		if newLine == "" {
			newLine = "\n"
		}
		str := line.String() + newLine
		n, err := bw.WriteString(str)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n != len(str) {
			return total, fmt.Errorf("short write")
		}
	}
	return total, bw.Flush()
}
