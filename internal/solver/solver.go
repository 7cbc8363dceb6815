// Package solver implements forward-backward-forward (FBF) extragradient
// solvers for saddle-point problems.
//
// This package provides:
//   - Solver interface: the extrapolation/correction protocol
//   - FBF: plain extragradient with optional inertia
//   - FBFAdam: extragradient with Adam-style adaptive moments
//
// A solver alternates two operations per outer iteration:
//
//	Extrapolate()  // look-ahead half-step using the current gradient
//	Correct()      // actual update, anchored at the pre-extrapolation point,
//	               // using the gradient evaluated at the trial point
//
// The caller obtains a gradient from the problem oracle before each of the
// two calls. The pairing is enforced: correcting without a pending
// extrapolation, or extrapolating twice in a row, returns a protocol error
// instead of silently reusing stale state.
package solver

import (
	"errors"
	"fmt"

	"github.com/saddle-ml/saddle/internal/linalg"
	"github.com/saddle-ml/saddle/internal/param"
)

// Phase is the protocol state of a solver.
type Phase int

const (
	// PhaseReady means no extrapolation is pending; the next valid
	// operation is Extrapolate.
	PhaseReady Phase = iota
	// PhaseExtrapolated means an extrapolation snapshot is stored and
	// waiting for the paired Correct.
	PhaseExtrapolated
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseExtrapolated:
		return "extrapolated"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Protocol and numerical failure modes. All of them are unrecoverable for a
// single run.
var (
	// ErrNotExtrapolated is returned by Correct when no extrapolation
	// snapshot is pending.
	ErrNotExtrapolated = errors.New("solver: Correct called without a pending Extrapolate")

	// ErrAlreadyExtrapolated is returned by Extrapolate when the previous
	// extrapolation has not been consumed by a Correct.
	ErrAlreadyExtrapolated = errors.New("solver: Extrapolate called twice without a Correct")

	// ErrNonFinite is returned when an update produces NaN or Inf
	// components, which indicates divergence.
	ErrNonFinite = errors.New("solver: non-finite parameter value")
)

// Solver is the interface implemented by all extragradient solvers.
//
// Gradients are read from each parameter's gradient slot; a parameter whose
// gradient is nil is skipped on that call, which lets two independently
// gated players share one iteration counter.
type Solver interface {
	// Extrapolate performs the look-ahead half-step. It snapshots every
	// parameter value, then moves each parameter to a provisional trial
	// point. The step count is not advanced.
	Extrapolate() error

	// Correct performs the actual update, anchored at the snapshot taken
	// by the preceding Extrapolate, and restores the solver to PhaseReady.
	Correct() error

	// ZeroGrad clears the gradients of all attached parameters.
	ZeroGrad()

	// Phase returns the current protocol state.
	Phase() Phase

	// GetLR returns the current step size.
	GetLR() float64

	// SetLR updates the step size.
	SetLR(lr float64)
}

// checkFinite verifies that a parameter value stayed finite after an update.
func checkFinite(p *param.Parameter) error {
	if !linalg.AllFinite(p.Vector()) {
		return fmt.Errorf("%w in parameter %q", ErrNonFinite, p.Name())
	}
	return nil
}
