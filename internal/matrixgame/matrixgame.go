// Package matrixgame implements the bilinear saddle-point toy problem used
// to validate the solvers against a known closed-form solution.
//
// The objective is
//
//	f(x, y) = aᵀx + xᵀAy + bᵀy
//
// whose unique saddle point solves Aᵀx = -b and Ay = -a. The gradient
// oracle returns descent directions for both players:
//
//	g_x = a + A·y
//	g_y = -(Aᵀ·x + b)
//
// so that both players step against their returned gradient and the joint
// operator (g_x, g_y) is monotone.
package matrixgame

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Problem is a bilinear matrix game.
type Problem struct {
	a *mat.VecDense
	b *mat.VecDense
	m *mat.Dense // the coupling matrix A
}

// New creates a problem from a square coupling matrix and the two linear
// terms. The dimensions must agree.
func New(coupling *mat.Dense, a, b *mat.VecDense) (*Problem, error) {
	r, c := coupling.Dims()
	if r != c {
		return nil, errors.Errorf("matrixgame: coupling matrix must be square, got %dx%d", r, c)
	}
	if a.Len() != r || b.Len() != r {
		return nil, errors.Errorf("matrixgame: linear terms must have dimension %d, got %d and %d",
			r, a.Len(), b.Len())
	}
	return &Problem{m: coupling, a: a, b: b}, nil
}

// NewRandom creates a d-dimensional problem from the given source of
// randomness: A = diag(±1) with equiprobable signs, a and b uniform on
// [0, 1).
func NewRandom(d int, rng *rand.Rand) *Problem {
	coupling := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		if rng.Intn(2) == 0 {
			coupling.Set(i, i, 1)
		} else {
			coupling.Set(i, i, -1)
		}
	}

	a := mat.NewVecDense(d, nil)
	b := mat.NewVecDense(d, nil)
	for i := 0; i < d; i++ {
		a.SetVec(i, rng.Float64())
		b.SetVec(i, rng.Float64())
	}
	return &Problem{m: coupling, a: a, b: b}
}

// Dim returns the problem dimension.
func (p *Problem) Dim() int {
	return p.a.Len()
}

// Gradients evaluates the oracle at (x, y) and stores the descent
// directions for both players in gx and gy.
func (p *Problem) Gradients(x, y, gx, gy *mat.VecDense) {
	// g_x = a + A*y
	gx.MulVec(p.m, y)
	gx.AddVec(gx, p.a)

	// g_y = -(Aᵀ*x + b)
	gy.MulVec(p.m.T(), x)
	gy.AddVec(gy, p.b)
	gy.ScaleVec(-1, gy)
}

// Value evaluates f(x, y).
func (p *Problem) Value(x, y *mat.VecDense) float64 {
	ay := mat.NewVecDense(p.Dim(), nil)
	ay.MulVec(p.m, y)
	return mat.Dot(p.a, x) + mat.Dot(x, ay) + mat.Dot(p.b, y)
}

// Solution computes the closed-form saddle point: x* solves Aᵀx = -b and
// y* solves Ay = -a.
//
// A singular coupling matrix means the experiment has no saddle-point
// reference and is a fatal configuration error.
func (p *Problem) Solution() (xSol, ySol *mat.VecDense, err error) {
	d := p.Dim()

	negB := mat.NewVecDense(d, nil)
	negB.ScaleVec(-1, p.b)
	xSol = mat.NewVecDense(d, nil)
	if err := xSol.SolveVec(p.m.T(), negB); err != nil {
		return nil, nil, errors.Wrap(err, "matrixgame: solving Aᵀx = -b")
	}

	negA := mat.NewVecDense(d, nil)
	negA.ScaleVec(-1, p.a)
	ySol = mat.NewVecDense(d, nil)
	if err := ySol.SolveVec(p.m, negA); err != nil {
		return nil, nil, errors.Wrap(err, "matrixgame: solving Ay = -a")
	}

	return xSol, ySol, nil
}

// Lipschitz returns the Frobenius norm of the joint gradient operator
//
//	M = [[0, A], [-Aᵀ, 0]]
//
// which equals √2·‖A‖_F. The step size 1/Lipschitz is a safe choice for
// the extragradient solvers.
func (p *Problem) Lipschitz() float64 {
	return mat.Norm(p.m, 2) * math.Sqrt2
}

// Gap evaluates the duality gap of the unit-ball restricted problem,
//
//	max{f(x, y') : ‖y'‖ ≤ 1} - min{f(x', y) : ‖x'‖ ≤ 1}
//
// for which both auxiliary problems have closed-form solutions:
//
//	G(x, y) = aᵀx + ‖Aᵀx + b‖ - bᵀy + ‖Ay + a‖
//
// For iterates inside the unit balls the gap is nonnegative and zero only
// at the restricted saddle point.
func (p *Problem) Gap(x, y *mat.VecDense) float64 {
	d := p.Dim()

	// ‖Aᵀx + b‖
	dual := mat.NewVecDense(d, nil)
	dual.MulVec(p.m.T(), x)
	dual.AddVec(dual, p.b)

	// ‖Ay + a‖
	primal := mat.NewVecDense(d, nil)
	primal.MulVec(p.m, y)
	primal.AddVec(primal, p.a)

	return mat.Dot(p.a, x) + mat.Norm(dual, 2) - mat.Dot(p.b, y) + mat.Norm(primal, 2)
}
