// Copyright 2025 Saddle ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diag provides convergence diagnostics for saddle-point runs: the
// fixed-point residual of the extrapolation/correction cycle and, where
// computable, a duality gap.
package diag

import (
	"github.com/saddle-ml/saddle/internal/diag"
	"github.com/saddle-ml/saddle/internal/param"
)

// Point is one diagnostic observation.
type Point = diag.Point

// Recorder collects the ordered diagnostic series of a run.
type Recorder = diag.Recorder

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return diag.NewRecorder()
}

// Residual computes the fixed-point residual between two snapshots of the
// same parameter set.
func Residual(before, after []*param.Parameter) float64 {
	return diag.Residual(before, after)
}
