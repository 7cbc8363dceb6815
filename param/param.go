// Copyright 2025 Saddle ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package param provides the parameter vectors optimized by the solvers.
package param

import (
	"gonum.org/v1/gonum/mat"

	"github.com/saddle-ml/saddle/internal/param"
)

// Parameter is one optimization variable of a player: a named float64
// vector with an attached gradient slot.
type Parameter = param.Parameter

// New creates a parameter from a copy of the given initial values.
func New(name string, data []float64) *Parameter {
	return param.New(name, data)
}

// FromVec creates a parameter that takes ownership of vec.
func FromVec(name string, vec *mat.VecDense) *Parameter {
	return param.FromVec(name, vec)
}
