package solver_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/saddle-ml/saddle/internal/matrixgame"
	"github.com/saddle-ml/saddle/internal/param"
	"github.com/saddle-ml/saddle/internal/prox"
	"github.com/saddle-ml/saddle/internal/solver"
)

// diagProblem builds the d=5 reference game: A = diag(1,-1,1,-1,1),
// a = b = 0.1 in every component.
func diagProblem(t *testing.T) *matrixgame.Problem {
	t.Helper()

	coupling := mat.NewDense(5, 5, nil)
	for i := 0; i < 5; i++ {
		if i%2 == 0 {
			coupling.Set(i, i, 1)
		} else {
			coupling.Set(i, i, -1)
		}
	}
	a := constVec(5, 0.1)
	b := constVec(5, 0.1)

	problem, err := matrixgame.New(coupling, a, b)
	require.NoError(t, err)
	return problem
}

func constVec(n int, v float64) *mat.VecDense {
	vec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		vec.SetVec(i, v)
	}
	return vec
}

// runCycles drives full extrapolation/correction cycles of both players
// against the problem oracle.
func runCycles(t *testing.T, problem *matrixgame.Problem, x, y *param.Parameter, sx, sy solver.Solver, n int) {
	t.Helper()

	d := x.Len()
	gx := mat.NewVecDense(d, nil)
	gy := mat.NewVecDense(d, nil)

	for k := 0; k < n; k++ {
		problem.Gradients(x.Vector(), y.Vector(), gx, gy)
		x.SetGrad(gx)
		y.SetGrad(gy)
		require.NoError(t, sx.Extrapolate())
		require.NoError(t, sy.Extrapolate())

		problem.Gradients(x.Vector(), y.Vector(), gx, gy)
		require.NoError(t, sx.Correct())
		require.NoError(t, sy.Correct())
	}
}

func TestFBF_ZeroGradientNoDrift(t *testing.T) {
	x := param.New("x", []float64{1.5, -2.0, 0.25})
	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: 0.1, Inertia: 0.3})

	zero := mat.NewVecDense(3, nil)
	for k := 0; k < 100; k++ {
		x.SetGrad(zero)
		require.NoError(t, s.Extrapolate())
		require.NoError(t, s.Correct())
	}

	assert.Equal(t, []float64{1.5, -2.0, 0.25}, x.Vector().RawVector().Data)
}

func TestFBF_CorrectAnchorsAtPreExtrapolationPoint(t *testing.T) {
	x := param.New("x", []float64{2.0})
	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: 0.1})

	x.SetGrad(mat.NewVecDense(1, []float64{1.0}))
	require.NoError(t, s.Extrapolate())
	assert.InDelta(t, 1.9, x.Vector().AtVec(0), 1e-12, "trial point")

	// Gradient at the trial point differs from the prior gradient; the
	// update must be anchored at 2.0, not at 1.9.
	x.SetGrad(mat.NewVecDense(1, []float64{0.5}))
	require.NoError(t, s.Correct())
	assert.InDelta(t, 2.0-0.1*0.5, x.Vector().AtVec(0), 1e-12)
}

func TestFBF_ProtocolErrors(t *testing.T) {
	x := param.New("x", []float64{1.0})
	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: 0.1})
	grad := mat.NewVecDense(1, []float64{1.0})

	// Correct before any Extrapolate.
	x.SetGrad(grad)
	assert.ErrorIs(t, s.Correct(), solver.ErrNotExtrapolated)

	require.NoError(t, s.Extrapolate())
	assert.Equal(t, solver.PhaseExtrapolated, s.Phase())

	// Extrapolate twice in a row.
	assert.ErrorIs(t, s.Extrapolate(), solver.ErrAlreadyExtrapolated)

	require.NoError(t, s.Correct())
	assert.Equal(t, solver.PhaseReady, s.Phase())

	// Correct twice in a row.
	assert.ErrorIs(t, s.Correct(), solver.ErrNotExtrapolated)
}

func TestFBF_NonFiniteGradientIsFatal(t *testing.T) {
	x := param.New("x", []float64{1.0})
	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: 0.1})

	x.SetGrad(mat.NewVecDense(1, []float64{math.Inf(1)}))
	assert.ErrorIs(t, s.Extrapolate(), solver.ErrNonFinite)
}

func TestFBF_MissingGradientRestoresAnchor(t *testing.T) {
	x := param.New("x", []float64{2.0})
	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: 0.1})

	x.SetGrad(mat.NewVecDense(1, []float64{1.0}))
	require.NoError(t, s.Extrapolate())

	// A gated player computes no gradient for the correction sub-step;
	// the trial step must not survive.
	x.ZeroGrad()
	require.NoError(t, s.Correct())
	assert.InDelta(t, 2.0, x.Vector().AtVec(0), 1e-12)
	assert.Equal(t, solver.PhaseReady, s.Phase())
}

func TestFBF_SkipsParameterWithoutGradient(t *testing.T) {
	x := param.New("x", []float64{1.0})
	frozen := param.New("frozen", []float64{7.0})
	s := solver.NewFBF([]*param.Parameter{x, frozen}, solver.FBFConfig{LR: 0.1})

	x.SetGrad(mat.NewVecDense(1, []float64{1.0}))
	require.NoError(t, s.Extrapolate())
	x.SetGrad(mat.NewVecDense(1, []float64{1.0}))
	require.NoError(t, s.Correct())

	assert.InDelta(t, 0.9, x.Vector().AtVec(0), 1e-12)
	assert.Equal(t, 7.0, frozen.Vector().AtVec(0))
}

func TestFBF_ConvergesToSaddlePoint(t *testing.T) {
	problem := diagProblem(t)
	xSol, ySol, err := problem.Solution()
	require.NoError(t, err)

	lr := 1 / problem.Lipschitz()
	x := param.New("x", []float64{0.5, 0.5, 0.5, 0.5, 0.5})
	y := param.New("y", []float64{0.5, 0.5, 0.5, 0.5, 0.5})
	sx := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: lr})
	sy := solver.NewFBF([]*param.Parameter{y}, solver.FBFConfig{LR: lr})

	runCycles(t, problem, x, y, sx, sy, 10000)

	dx := mat.NewVecDense(5, nil)
	dx.SubVec(x.Vector(), xSol)
	dy := mat.NewVecDense(5, nil)
	dy.SubVec(y.Vector(), ySol)

	assert.Less(t, mat.Norm(dx, 2), 1e-3, "x distance to saddle point")
	assert.Less(t, mat.Norm(dy, 2), 1e-3, "y distance to saddle point")
}

func TestFBF_ResidualBelowToleranceAfter1000Iterations(t *testing.T) {
	problem := diagProblem(t)

	lr := 1 / problem.Lipschitz()
	x := param.New("x", []float64{0.5, 0.5, 0.5, 0.5, 0.5})
	y := param.New("y", []float64{0.5, 0.5, 0.5, 0.5, 0.5})
	sx := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: lr})
	sy := solver.NewFBF([]*param.Parameter{y}, solver.FBFConfig{LR: lr})

	runCycles(t, problem, x, y, sx, sy, 999)

	// Residual of the 1000th cycle.
	beforeX := mat.VecDenseCopyOf(x.Vector())
	beforeY := mat.VecDenseCopyOf(y.Vector())
	runCycles(t, problem, x, y, sx, sy, 1)

	dx := mat.NewVecDense(5, nil)
	dx.SubVec(x.Vector(), beforeX)
	dy := mat.NewVecDense(5, nil)
	dy.SubVec(y.Vector(), beforeY)
	residual := math.Hypot(mat.Norm(dx, 2), mat.Norm(dy, 2))

	assert.Less(t, residual, 1e-2)
}

func TestFBF_L1ProxShrinksIterates(t *testing.T) {
	// Pure descent on f(x) = ½‖x‖² with a strong L1 penalty collapses the
	// iterate towards zero at the rate lr per cycle.
	x := param.New("x", []float64{0.4, -0.4})
	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{
		LR:   0.1,
		Prox: prox.L1(10),
	})

	for k := 0; k < 5; k++ {
		x.SetGrad(mat.VecDenseCopyOf(x.Vector()))
		require.NoError(t, s.Extrapolate())
		x.SetGrad(mat.VecDenseCopyOf(x.Vector()))
		require.NoError(t, s.Correct())
	}

	assert.Less(t, math.Abs(x.Vector().AtVec(0)), 1e-4)
	assert.Less(t, math.Abs(x.Vector().AtVec(1)), 1e-4)
}
