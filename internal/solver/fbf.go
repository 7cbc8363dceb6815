package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/saddle-ml/saddle/internal/param"
	"github.com/saddle-ml/saddle/internal/prox"
)

// FBF implements Tseng's forward-backward-forward extragradient method.
//
// One outer iteration consists of two calls:
//
//	Extrapolate: z_k = prox(y_k - lr*F(y_k))        // trial point
//	Correct:     y_{k+1} = z_k - lr*(F(z_k) - F(y_k))
//
// With the identity proximal operator this reduces to
//
//	y_{k+1} = y_k - lr*F(z_k)
//
// i.e. the update is anchored at the pre-extrapolation point: the trial
// step never compounds. An optional inertia coefficient blends a multiple
// of the previous correction increment into the look-ahead.
//
// Example:
//
//	s := solver.NewFBF([]*param.Parameter{x}, solver.FBFConfig{LR: 0.1})
//
//	for k := 0; k < maxIter; k++ {
//	    x.SetGrad(oracle(x))
//	    if err := s.Extrapolate(); err != nil { ... }
//	    x.SetGrad(oracle(x))
//	    if err := s.Correct(); err != nil { ... }
//	}
type FBF struct {
	params  []*param.Parameter
	lr      float64
	inertia float64
	prox    prox.Operator
	phase   Phase
	state   map[*param.Parameter]*fbfState
}

// fbfState is the per-parameter solver state.
type fbfState struct {
	anchor    *mat.VecDense // value at the start of the pending extrapolation
	priorGrad *mat.VecDense // gradient at the anchor
	prevInc   *mat.VecDense // increment of the last correction, for inertia
}

// FBFConfig holds configuration for the FBF solver.
type FBFConfig struct {
	LR      float64       // Step size (default: 0.01)
	Inertia float64       // Inertia coefficient (default: 0.0, range: [0, 1))
	Prox    prox.Operator // Proximal operator (default: identity)
}

// NewFBF creates a new FBF solver attached to the given parameters.
func NewFBF(params []*param.Parameter, config FBFConfig) *FBF {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &FBF{
		params:  params,
		lr:      config.LR,
		inertia: config.Inertia,
		prox:    config.Prox,
		phase:   PhaseReady,
		state:   make(map[*param.Parameter]*fbfState),
	}
}

// Extrapolate performs the forward-backward half-step.
//
// For every parameter with a gradient it snapshots the current value and
// gradient, then moves the parameter to the trial point
// prox(value - lr*grad + inertia*previousIncrement). Parameters without a
// gradient keep their value and are skipped by the paired Correct.
func (s *FBF) Extrapolate() error {
	if s.phase != PhaseReady {
		return ErrAlreadyExtrapolated
	}

	for _, p := range s.params {
		grad := p.Grad()
		if grad == nil {
			continue
		}

		st := s.stateFor(p)
		st.anchor = mat.VecDenseCopyOf(p.Vector())
		st.priorGrad = mat.VecDenseCopyOf(grad)

		// value -= lr * grad
		p.Vector().AddScaledVec(p.Vector(), -s.lr, grad)
		if s.inertia != 0 && st.prevInc != nil {
			p.Vector().AddScaledVec(p.Vector(), s.inertia, st.prevInc)
		}
		s.prox.Apply(p.Vector(), s.lr)

		if err := checkFinite(p); err != nil {
			return err
		}
	}

	s.phase = PhaseExtrapolated
	return nil
}

// Correct performs the second forward step and consumes the snapshot.
//
// value = trial - lr*(gradAtTrial - gradAtAnchor). A parameter whose
// gradient is missing at correction time is restored to its anchor, so a
// gated player never keeps a half-applied trial step.
func (s *FBF) Correct() error {
	if s.phase != PhaseExtrapolated {
		return ErrNotExtrapolated
	}

	for _, p := range s.params {
		st := s.state[p]
		if st == nil || st.anchor == nil {
			continue
		}

		grad := p.Grad()
		if grad == nil {
			p.Set(st.anchor)
			st.anchor, st.priorGrad = nil, nil
			continue
		}

		// value = trial - lr*(grad - priorGrad)
		p.Vector().AddScaledVec(p.Vector(), -s.lr, grad)
		p.Vector().AddScaledVec(p.Vector(), s.lr, st.priorGrad)

		if st.prevInc == nil {
			st.prevInc = mat.NewVecDense(p.Len(), nil)
		}
		st.prevInc.SubVec(p.Vector(), st.anchor)
		st.anchor, st.priorGrad = nil, nil

		if err := checkFinite(p); err != nil {
			return err
		}
	}

	s.phase = PhaseReady
	return nil
}

// ZeroGrad clears gradients for all parameters.
func (s *FBF) ZeroGrad() {
	for _, p := range s.params {
		p.ZeroGrad()
	}
}

// Phase returns the current protocol state.
func (s *FBF) Phase() Phase {
	return s.phase
}

// GetLR returns the current step size.
func (s *FBF) GetLR() float64 {
	return s.lr
}

// SetLR updates the step size.
func (s *FBF) SetLR(lr float64) {
	s.lr = lr
}

func (s *FBF) stateFor(p *param.Parameter) *fbfState {
	st, ok := s.state[p]
	if !ok {
		st = &fbfState{}
		s.state[p] = st
	}
	return st
}
