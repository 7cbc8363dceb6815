// Copyright 2025 Saddle ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package prox provides the proximal operators applied after a correction
// step.
//
// The operator variant is closed: {None, L1, BoxClip}. It is resolved once
// at configuration time, and requesting an unimplemented operator is an
// error rather than a silent identity.
package prox

import (
	"github.com/saddle-ml/saddle/internal/prox"
)

// Operator is a resolved proximal operator.
type Operator = prox.Operator

// Kind identifies a proximal operator.
type Kind = prox.Kind

// Operator kinds.
const (
	KindNone    = prox.KindNone
	KindL1      = prox.KindL1
	KindBoxClip = prox.KindBoxClip
)

// None returns the identity operator.
func None() Operator {
	return prox.None()
}

// L1 returns a soft-thresholding operator with regularization strength
// lambda. Applied with step size t it shrinks every component by lambda*t.
func L1(lambda float64) Operator {
	return prox.L1(lambda)
}

// BoxClip returns an operator clamping every component to [-radius, radius].
func BoxClip(radius float64) Operator {
	return prox.BoxClip(radius)
}

// Parse resolves a configuration name ("none", "1norm", "clip") into an
// operator with the given numeric parameter.
func Parse(name string, parameter float64) (Operator, error) {
	return prox.Parse(name, parameter)
}
