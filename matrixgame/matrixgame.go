// Copyright 2025 Saddle ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrixgame provides the bilinear saddle-point toy problem
//
//	f(x, y) = aᵀx + xᵀAy + bᵀy
//
// with a closed-form saddle point (x* solves Aᵀx = -b, y* solves Ay = -a),
// a gradient oracle for both players, a Lipschitz constant for safe step
// sizes, and a unit-ball restricted duality gap.
package matrixgame

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/saddle-ml/saddle/internal/matrixgame"
)

// Problem is a bilinear matrix game.
type Problem = matrixgame.Problem

// New creates a problem from a square coupling matrix and the two linear
// terms.
func New(coupling *mat.Dense, a, b *mat.VecDense) (*Problem, error) {
	return matrixgame.New(coupling, a, b)
}

// NewRandom creates a d-dimensional problem from the given source of
// randomness: A = diag(±1) with equiprobable signs, a and b uniform on
// [0, 1).
func NewRandom(d int, rng *rand.Rand) *Problem {
	return matrixgame.NewRandom(d, rng)
}
