// Package matutils implements utility functions for working with
// mat.Matrix and mat.Vector values
package matutils

import (
	"gonum.org/v1/gonum/mat"
)

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, only the first one is returned.
func MaxVec(values mat.Vector) int {
	max, idx := values.AtVec(0), 0

	for i := 1; i < values.Len(); i++ {
		if values.AtVec(i) > max {
			max = values.AtVec(i)
			idx = i
		}
	}
	return idx
}

// Flatten returns the values of a matrix as a new slice in row-major
// order. The returned slice does not share memory with the matrix.
func Flatten(X mat.Matrix) []float64 {
	rows, cols := X.Dims()
	data := make([]float64, 0, rows*cols)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data = append(data, X.At(r, c))
		}
	}
	return data
}
