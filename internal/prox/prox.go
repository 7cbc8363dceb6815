// Package prox implements the proximal operators applied after a correction
// step.
//
// The operator kind is resolved once at configuration time; selecting an
// unknown kind is a configuration error, never a silent fallthrough to the
// identity.
package prox

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kind identifies a proximal operator.
type Kind int

const (
	// KindNone is the identity operator (unconstrained problem).
	KindNone Kind = iota
	// KindL1 is elementwise soft-thresholding for an L1 penalty.
	KindL1
	// KindBoxClip clamps every component to [-radius, radius].
	KindBoxClip
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindL1:
		return "1norm"
	case KindBoxClip:
		return "clip"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Operator is a resolved proximal operator.
//
// The zero value is the identity operator.
type Operator struct {
	kind  Kind
	param float64 // regularization strength for L1, clip radius for BoxClip
}

// None returns the identity operator.
func None() Operator {
	return Operator{kind: KindNone}
}

// L1 returns a soft-thresholding operator with regularization strength lambda.
func L1(lambda float64) Operator {
	return Operator{kind: KindL1, param: lambda}
}

// BoxClip returns a clamping operator with the given radius.
func BoxClip(radius float64) Operator {
	return Operator{kind: KindBoxClip, param: radius}
}

// Parse resolves a configuration name ("none", "1norm", "clip") into an
// operator with the given numeric parameter.
//
// Returns an error for names without an implementation, so a typo in a
// config file fails before the run starts.
func Parse(name string, parameter float64) (Operator, error) {
	switch name {
	case "", "none":
		return None(), nil
	case "1norm":
		return L1(parameter), nil
	case "clip":
		return BoxClip(parameter), nil
	default:
		return Operator{}, fmt.Errorf("prox: operator %q is not supported", name)
	}
}

// Kind returns the operator kind.
func (o Operator) Kind() Kind {
	return o.kind
}

// IsIdentity reports whether applying the operator is a no-op.
func (o Operator) IsIdentity() bool {
	return o.kind == KindNone || (o.kind == KindL1 && o.param == 0)
}

// Apply applies the operator to vec in place, scaled by the step size used
// for the preceding gradient step.
//
// For L1 the effective threshold is lambda*step (the proximal map of the
// scaled penalty); for BoxClip the step size is ignored.
func (o Operator) Apply(vec *mat.VecDense, step float64) {
	raw := vec.RawVector()
	switch o.kind {
	case KindNone:
	case KindL1:
		threshold := o.param * step
		for i := 0; i < raw.N; i++ {
			idx := i * raw.Inc
			raw.Data[idx] = softThreshold(raw.Data[idx], threshold)
		}
	case KindBoxClip:
		for i := 0; i < raw.N; i++ {
			idx := i * raw.Inc
			raw.Data[idx] = clamp(raw.Data[idx], o.param)
		}
	}
}

// softThreshold returns sign(v)*max(|v|-threshold, 0).
func softThreshold(v, threshold float64) float64 {
	shrunk := math.Abs(v) - threshold
	if shrunk <= 0 {
		return 0
	}
	return math.Copysign(shrunk, v)
}

func clamp(v, radius float64) float64 {
	if v > radius {
		return radius
	}
	if v < -radius {
		return -radius
	}
	return v
}
