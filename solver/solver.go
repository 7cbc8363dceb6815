// Copyright 2025 Saddle ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/saddle-ml/saddle/internal/param"
	"github.com/saddle-ml/saddle/internal/solver"
)

// Solver is the common interface of the extragradient solvers.
type Solver = solver.Solver

// Phase is the protocol state of a solver.
type Phase = solver.Phase

// Protocol states.
const (
	PhaseReady        = solver.PhaseReady
	PhaseExtrapolated = solver.PhaseExtrapolated
)

// Protocol and numerical failure modes.
var (
	ErrNotExtrapolated     = solver.ErrNotExtrapolated
	ErrAlreadyExtrapolated = solver.ErrAlreadyExtrapolated
	ErrNonFinite           = solver.ErrNonFinite
)

// FBF is the plain forward-backward-forward extragradient solver.
type FBF = solver.FBF

// FBFConfig contains configuration for the FBF solver.
type FBFConfig = solver.FBFConfig

// NewFBF creates a new FBF solver.
//
// Example:
//
//	x := param.New("x", x0)
//	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{
//	    LR: 1 / lipschitz,
//	})
func NewFBF(params []*param.Parameter, config FBFConfig) *FBF {
	return solver.NewFBF(params, config)
}

// FBFAdam is the forward-backward-forward solver with Adam-style moments.
type FBFAdam = solver.FBFAdam

// FBFAdamConfig contains configuration for the FBFAdam solver.
type FBFAdamConfig = solver.FBFAdamConfig

// NewFBFAdam creates a new FBFAdam solver.
//
// Example:
//
//	s := solver.NewFBFAdam(params, solver.FBFAdamConfig{
//	    LR:    2e-4,
//	    Betas: [2]float64{0.5, 0.9},
//	})
func NewFBFAdam(params []*param.Parameter, config FBFAdamConfig) *FBFAdam {
	return solver.NewFBFAdam(params, config)
}
