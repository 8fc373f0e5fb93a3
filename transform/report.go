package transform

import (
	"fmt"
	"io"
	"strings"

	iFmt "github.com/fornellas/gxform/internal/fmt"
)

// Report summarizes a Job run.
type Report struct {
	InputPath  string
	OutputPath string
	Shift      Shift
	Matrix     Matrix
	Region     Region
	// Changed is the number of lines that differ from the input, including marker lines.
	Changed int
}

func (r *Report) WriteTo(w io.Writer) (int64, error) {
	rule := strings.Repeat("_", 40)
	var b strings.Builder
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Reading: %s\n", r.InputPath)
	fmt.Fprintf(&b, "Transform to X:%s, Y:%s, THETA:%s\n",
		iFmt.SprintFloat(r.Shift.X, 4), iFmt.SprintFloat(r.Shift.Y, 4), iFmt.SprintFloat(r.Shift.Degrees, 4),
	)
	if r.Shift.XCenter != 0 || r.Shift.YCenter != 0 {
		fmt.Fprintf(&b, "Center at X:%s, Y:%s\n",
			iFmt.SprintFloat(r.Shift.XCenter, 4), iFmt.SprintFloat(r.Shift.YCenter, 4),
		)
	}
	fmt.Fprintln(&b, r.Matrix)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Transformed G-code written to %s\n", r.OutputPath)
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
