// Copyright 2025 Saddle ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package solver provides forward-backward-forward (FBF) extragradient
// solvers for saddle-point problems.
//
// # Overview
//
// This package contains:
//   - FBF: plain extragradient with optional inertia
//   - FBFAdam: extragradient with Adam-style adaptive moments
//   - Solver interface for the extrapolation/correction protocol
//
// # Protocol
//
// One outer iteration is a pair of calls, each preceded by a gradient
// evaluation:
//
//	x.SetGrad(oracle(x))   // gradient at the current point
//	s.Extrapolate()        // look-ahead half-step to the trial point
//	x.SetGrad(oracle(x))   // gradient at the trial point
//	s.Correct()            // update anchored at the pre-extrapolation point
//
// The pairing is enforced: calling Correct without a pending Extrapolate,
// or Extrapolate twice in a row, returns a protocol error.
//
// # Basic Usage
//
//	import (
//	    "github.com/saddle-ml/saddle/param"
//	    "github.com/saddle-ml/saddle/solver"
//	)
//
//	func main() {
//	    x := param.New("x", []float64{0.5, 0.5})
//
//	    s := solver.NewFBFAdam([]*param.Parameter{x}, solver.FBFAdamConfig{
//	        LR:    2e-4,
//	        Betas: [2]float64{0.5, 0.9},
//	    })
//
//	    for k := 0; k < maxIter; k++ {
//	        x.SetGrad(gradientAt(x))
//	        if err := s.Extrapolate(); err != nil {
//	            return err
//	        }
//	        x.SetGrad(gradientAt(x))
//	        if err := s.Correct(); err != nil {
//	            return err
//	        }
//	    }
//	}
package solver
