// Package experiment drives saddle-point optimization runs.
//
// This package contains the pieces around the solver core that a complete
// experiment needs: the two-player iteration loop, run configuration,
// iterate averaging, diagnostics output, and hyperparameter sweeps.
//
// The loop owns the extrapolation/correction protocol. Each outer iteration
// performs one full cycle for both players:
//
//  1. Oracle evaluates gradients at the current iterate
//  2. Both solvers extrapolate to their trial points
//  3. Oracle re-evaluates gradients at the trial iterate
//  4. Both solvers correct, anchored at the pre-extrapolation values
//  5. Diagnostics are recorded and the stopping rule is checked
//
// No I/O happens between steps 1 and 4 so timing diagnostics stay honest.
package experiment

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/saddle-ml/saddle/internal/diag"
	"github.com/saddle-ml/saddle/internal/param"
	"github.com/saddle-ml/saddle/internal/solver"
)

// Oracle supplies the gradients of both players at a given iterate.
//
// It is called twice per outer iteration: once before extrapolation and
// once at the extrapolated trial point.
type Oracle interface {
	// Gradients stores the descent directions for the x and y players,
	// evaluated at (x, y), into gx and gy.
	Gradients(x, y, gx, gy *mat.VecDense)
}

// GapFunc computes a duality gap at the current iterate. Runs without a
// computable gap leave it nil.
type GapFunc func(x, y *mat.VecDense) float64

// Player couples one side of the saddle-point problem with its solver.
//
// Each player maintains its own extrapolation/correction state; the loop
// advances both in step with a shared iteration counter.
type Player struct {
	Param    *param.Parameter
	Solver   solver.Solver
	Averager *Averager // optional running average of correction iterates
}

// Loop runs the two-player extrapolate/correct protocol to convergence.
type Loop struct {
	oracle    Oracle
	x, y      Player
	gap       GapFunc
	tolerance float64
	evalFreq  int
	recorder  *diag.Recorder
}

// LoopConfig holds configuration for a Loop.
type LoopConfig struct {
	Tolerance float64 // Stop when the fixed-point residual falls below this (default: 1e-10)
	EvalFreq  int     // Progress log frequency in iterations (default: 10000)
	Gap       GapFunc // Optional duality gap diagnostic
}

// NewLoop creates a loop over the given oracle and players.
func NewLoop(oracle Oracle, x, y Player, config LoopConfig) *Loop {
	if config.Tolerance == 0 {
		config.Tolerance = 1e-10
	}
	if config.EvalFreq == 0 {
		config.EvalFreq = 10000
	}

	return &Loop{
		oracle:    oracle,
		x:         x,
		y:         y,
		gap:       config.Gap,
		tolerance: config.Tolerance,
		evalFreq:  config.EvalFreq,
		recorder:  diag.NewRecorder(),
	}
}

// Recorder returns the diagnostic series collected so far.
func (l *Loop) Recorder() *diag.Recorder {
	return l.recorder
}

// Run iterates until the fixed-point residual drops below the tolerance or
// the iteration budget is exhausted. It returns the number of full
// extrapolation/correction cycles performed.
func (l *Loop) Run(maxIter int) (int, error) {
	gx := mat.NewVecDense(l.x.Param.Len(), nil)
	gy := mat.NewVecDense(l.y.Param.Len(), nil)

	start := time.Now()
	for k := 0; k < maxIter; k++ {
		beforeX := mat.VecDenseCopyOf(l.x.Param.Vector())
		beforeY := mat.VecDenseCopyOf(l.y.Param.Vector())

		if err := l.cycle(gx, gy); err != nil {
			return k, err
		}

		residual := distance2(beforeX, l.x.Param.Vector(), beforeY, l.y.Param.Vector())
		if err := l.record(k, residual); err != nil {
			return k, err
		}

		if (k+1)%l.evalFreq == 0 {
			l.logProgress(k+1, residual, time.Since(start))
		}
		if residual < l.tolerance {
			return k + 1, nil
		}
	}
	return maxIter, nil
}

// cycle performs one full extrapolation/correction cycle for both players.
func (l *Loop) cycle(gx, gy *mat.VecDense) error {
	l.oracle.Gradients(l.x.Param.Vector(), l.y.Param.Vector(), gx, gy)
	l.x.Param.SetGrad(gx)
	l.y.Param.SetGrad(gy)

	if err := l.x.Solver.Extrapolate(); err != nil {
		return err
	}
	if err := l.y.Solver.Extrapolate(); err != nil {
		return err
	}

	l.oracle.Gradients(l.x.Param.Vector(), l.y.Param.Vector(), gx, gy)

	if err := l.x.Solver.Correct(); err != nil {
		return err
	}
	if err := l.y.Solver.Correct(); err != nil {
		return err
	}

	l.x.Param.ZeroGrad()
	l.y.Param.ZeroGrad()

	if l.x.Averager != nil {
		l.x.Averager.Update(l.x.Param.Vector())
	}
	if l.y.Averager != nil {
		l.y.Averager.Update(l.y.Param.Vector())
	}
	return nil
}

func (l *Loop) record(iteration int, residual float64) error {
	if l.gap == nil {
		return l.recorder.Observe(iteration, residual)
	}
	gap := l.gap(l.x.Param.Vector(), l.y.Param.Vector())
	return l.recorder.ObserveWithGap(iteration, residual, gap)
}

func (l *Loop) logProgress(iteration int, residual float64, elapsed time.Duration) {
	fields := log.Fields{
		"iteration": iteration,
		"residual":  residual,
		"elapsed":   elapsed.Round(time.Millisecond),
	}
	if p, ok := l.recorder.Last(); ok && p.GapKnown {
		fields["gap"] = p.Gap
	}
	log.WithFields(fields).Info("progress")
}

// distance2 is the stacked Euclidean distance over both players.
func distance2(ax, bx, ay, by *mat.VecDense) float64 {
	dx := mat.NewVecDense(ax.Len(), nil)
	dx.SubVec(ax, bx)
	dy := mat.NewVecDense(ay.Len(), nil)
	dy.SubVec(ay, by)
	return math.Hypot(mat.Norm(dx, 2), mat.Norm(dy, 2))
}
