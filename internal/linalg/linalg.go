// Package linalg provides small vector helpers shared by the solver and
// diagnostics packages.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// AllFinite reports whether every component of vec is finite.
func AllFinite(vec *mat.VecDense) bool {
	raw := vec.RawVector()
	for i := 0; i < raw.N; i++ {
		if v := raw.Data[i*raw.Inc]; math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b *mat.VecDense) float64 {
	diff := mat.NewVecDense(a.Len(), nil)
	diff.SubVec(a, b)
	return mat.Norm(diff, 2)
}
