// Package param provides the parameter vectors optimized by the solvers.
package param

import (
	"gonum.org/v1/gonum/mat"
)

// Parameter represents one optimization variable of a player.
//
// A Parameter owns a dense float64 vector and an attached gradient slot.
// The gradient is filled in by the problem oracle before each solver call
// and cleared with ZeroGrad afterwards.
//
// Example:
//
//	// Create a parameter from initial values
//	x := param.New("x", []float64{0.5, 0.5})
//
//	// Oracle sets the gradient
//	x.SetGrad(grad)
//
//	// Solver consumes x.Grad() and updates x.Vector() in place
//
// The dimension is fixed at construction and never changes during a run.
type Parameter struct {
	name string
	vec  *mat.VecDense
	grad *mat.VecDense
}

// New creates a parameter from a copy of the given initial values.
func New(name string, data []float64) *Parameter {
	values := make([]float64, len(data))
	copy(values, data)
	return &Parameter{
		name: name,
		vec:  mat.NewVecDense(len(values), values),
	}
}

// FromVec creates a parameter that takes ownership of vec.
func FromVec(name string, vec *mat.VecDense) *Parameter {
	return &Parameter{name: name, vec: vec}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Vector returns the parameter vector. Solvers mutate it in place.
func (p *Parameter) Vector() *mat.VecDense {
	return p.vec
}

// Len returns the parameter dimension.
func (p *Parameter) Len() int {
	return p.vec.Len()
}

// Grad returns the gradient vector.
//
// Returns nil if no gradient has been set since the last ZeroGrad; solvers
// skip parameters without a gradient on that call.
func (p *Parameter) Grad() *mat.VecDense {
	return p.grad
}

// SetGrad sets the gradient vector.
//
// The gradient must have the same dimension as the parameter; SetGrad
// panics otherwise, since a shape change mid-run is a programming error.
func (p *Parameter) SetGrad(grad *mat.VecDense) {
	if grad != nil && grad.Len() != p.vec.Len() {
		panic("param: gradient dimension does not match parameter dimension")
	}
	p.grad = grad
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}

// Clone returns a deep copy of the parameter value under the same name.
// The gradient is not copied.
func (p *Parameter) Clone() *Parameter {
	return &Parameter{
		name: p.name,
		vec:  mat.VecDenseCopyOf(p.vec),
	}
}

// Set overwrites the parameter value with a copy of v.
func (p *Parameter) Set(v *mat.VecDense) {
	p.vec.CopyVec(v)
}
