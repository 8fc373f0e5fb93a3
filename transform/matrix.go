package transform

import (
	"fmt"
	"math"
	"strings"

	iFmt "github.com/fornellas/gxform/internal/fmt"
)

// Matrix is a 2D affine transformation over homogeneous coordinates (x, y, 1). The bottom row
// must be (0, 0, 1).
type Matrix [3][3]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Translation returns a matrix that translates by (dx, dy).
func Translation(dx, dy float64) Matrix {
	return Matrix{
		{1, 0, dx},
		{0, 1, dy},
		{0, 0, 1},
	}
}

// Rotation returns a matrix that rotates counterclockwise by given degrees about the origin.
func Rotation(degrees float64) Matrix {
	radians := degrees * math.Pi / 180
	sin, cos := math.Sin(radians), math.Cos(radians)
	return Matrix{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}
}

// NewMatrix returns a matrix that rotates counterclockwise by given degrees about the origin, then
// translates by (dx, dy).
func NewMatrix(degrees, dx, dy float64) Matrix {
	m := Rotation(degrees)
	m[0][2] = dx
	m[1][2] = dy
	return m
}

// NewMatrixAbout is similar to NewMatrix, but rotates about (cx, cy) instead of the origin.
func NewMatrixAbout(degrees, cx, cy, dx, dy float64) Matrix {
	return Translation(cx+dx, cy+dy).
		Multiply(Rotation(degrees)).
		Multiply(Translation(-cx, -cy))
}

// Multiply returns m·o: the transformation o followed by m.
func (m Matrix) Multiply(o Matrix) Matrix {
	var r Matrix
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Validate checks that all entries are finite and that the bottom row is (0, 0, 1), so that the
// homogeneous divide is always by 1.
func (m Matrix) Validate() error {
	for i, row := range m {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: matrix entry [%d][%d] is not finite: %v", ErrComputation, i, j, v)
			}
		}
	}
	if m[2] != [3]float64{0, 0, 1} {
		return fmt.Errorf("%w: matrix bottom row must be (0, 0, 1), got %v", ErrComputation, m[2])
	}
	return nil
}

// Transform applies the matrix to the homogeneous point (x, y, 1).
func (m Matrix) Transform(x, y float64) (float64, float64) {
	tx := m[0][0]*x + m[0][1]*y + m[0][2]
	ty := m[1][0]*x + m[1][1]*y + m[1][2]
	w := m[2][0]*x + m[2][1]*y + m[2][2]
	return tx / w, ty / w
}

// String returns the matrix rows, with up to 4 decimal places.
func (m Matrix) String() string {
	rows := make([]string, len(m))
	for i, row := range m {
		values := make([]string, len(row))
		for j, v := range row {
			values[j] = iFmt.SprintFloat(v, 4)
		}
		rows[i] = "[" + strings.Join(values, " ") + "]"
	}
	return "[" + strings.Join(rows, "\n ") + "]"
}
