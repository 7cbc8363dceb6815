package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/saddle-ml/saddle/internal/param"
	"github.com/saddle-ml/saddle/internal/prox"
)

// FBFAdam implements the forward-backward-forward extragradient method with
// Adam-style adaptive moments.
//
// Adam bookkeeping follows the usual scheme:
//   - Exponential moving averages of the gradient (first moment) and the
//     squared gradient (second moment)
//   - Bias correction to compensate for initialization at zero
//
// The extragradient structure decides which gradient feeds the moments:
// the extrapolation half-step uses the raw current gradient only to reach
// the trial point, while the correction consumes the gradient evaluated at
// the trial point and anchors the update at the pre-extrapolation value:
//
//	m_t = beta1*m_{t-1} + (1-beta1)*grad              // trial gradient
//	v_t = beta2*v_{t-1} + (1-beta2)*grad²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	value = anchor - lr * m_hat / (sqrt(v_hat) + eps)
//
// The step count t advances on correction steps only.
//
// References: Tseng, "A Modified Forward-Backward Splitting Method for
// Maximal Monotone Mappings" (2000); Kingma & Ba, "Adam: A Method for
// Stochastic Optimization" (2014).
type FBFAdam struct {
	params  []*param.Parameter
	lr      float64
	beta1   float64
	beta2   float64
	eps     float64
	inertia float64
	prox    prox.Operator
	phase   Phase
	state   map[*param.Parameter]*adamState
}

// adamState is the per-parameter solver state.
type adamState struct {
	step      int           // correction steps taken, for bias correction
	m         *mat.VecDense // first moment
	v         *mat.VecDense // second moment
	anchor    *mat.VecDense // value at the start of the pending extrapolation
	priorGrad *mat.VecDense // gradient at the anchor
	prevInc   *mat.VecDense // increment of the last correction, for inertia
}

// FBFAdamConfig holds configuration for the FBFAdam solver.
type FBFAdamConfig struct {
	LR      float64       // Step size (default: 0.001)
	Betas   [2]float64    // Moment decay rates (default: [0.5, 0.9])
	Eps     float64       // Term for numerical stability (default: 1e-8)
	Inertia float64       // Inertia coefficient (default: 0.0, range: [0, 1))
	Prox    prox.Operator // Proximal operator applied after Correct (default: identity)
}

// NewFBFAdam creates a new FBFAdam solver attached to the given parameters.
//
// The default betas are the (0.5, 0.9) pair used for adversarial training,
// not Adam's single-objective (0.9, 0.999) defaults.
func NewFBFAdam(params []*param.Parameter, config FBFAdamConfig) *FBFAdam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.5
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.9
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &FBFAdam{
		params:  params,
		lr:      config.LR,
		beta1:   config.Betas[0],
		beta2:   config.Betas[1],
		eps:     config.Eps,
		inertia: config.Inertia,
		prox:    config.Prox,
		phase:   PhaseReady,
		state:   make(map[*param.Parameter]*adamState),
	}
}

// Extrapolate performs the look-ahead half-step.
//
// For every parameter with a gradient it snapshots the current value and
// gradient, then moves the parameter to the provisional trial point
// value - lr*grad + inertia*previousIncrement. Moments and the step count
// are untouched; the trial value exists only to obtain a second gradient
// evaluation.
func (a *FBFAdam) Extrapolate() error {
	if a.phase != PhaseReady {
		return ErrAlreadyExtrapolated
	}

	for _, p := range a.params {
		grad := p.Grad()
		if grad == nil {
			continue
		}

		st := a.stateFor(p)
		st.anchor = mat.VecDenseCopyOf(p.Vector())
		st.priorGrad = mat.VecDenseCopyOf(grad)

		p.Vector().AddScaledVec(p.Vector(), -a.lr, grad)
		if a.inertia != 0 && st.prevInc != nil {
			p.Vector().AddScaledVec(p.Vector(), a.inertia, st.prevInc)
		}

		if err := checkFinite(p); err != nil {
			return err
		}
	}

	a.phase = PhaseExtrapolated
	return nil
}

// Correct performs the moment update and the anchored parameter update,
// then applies the configured proximal operator.
//
// A parameter whose gradient is missing at correction time is restored to
// its anchor and its moments are left untouched.
func (a *FBFAdam) Correct() error {
	if a.phase != PhaseExtrapolated {
		return ErrNotExtrapolated
	}

	for _, p := range a.params {
		st := a.state[p]
		if st == nil || st.anchor == nil {
			continue
		}

		grad := p.Grad()
		if grad == nil {
			p.Set(st.anchor)
			st.anchor, st.priorGrad = nil, nil
			continue
		}

		if err := a.updateParameter(p, st, grad); err != nil {
			return err
		}
	}

	a.phase = PhaseReady
	return nil
}

// updateParameter performs the Adam correction for a single parameter.
func (a *FBFAdam) updateParameter(p *param.Parameter, st *adamState, grad *mat.VecDense) error {
	if st.m == nil {
		st.m = mat.NewVecDense(p.Len(), nil)
		st.v = mat.NewVecDense(p.Len(), nil)
	}

	st.step++
	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(st.step))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(st.step))

	value := p.Vector().RawVector().Data
	gradData := grad.RawVector()
	mData := st.m.RawVector().Data
	vData := st.v.RawVector().Data
	anchor := st.anchor.RawVector().Data

	for i := range value {
		g := gradData.Data[i*gradData.Inc]

		// m_t = beta1 * m_{t-1} + (1-beta1) * grad
		mData[i] = a.beta1*mData[i] + (1.0-a.beta1)*g

		// v_t = beta2 * v_{t-1} + (1-beta2) * grad²
		vData[i] = a.beta2*vData[i] + (1.0-a.beta2)*g*g

		mHat := mData[i] / biasCorrection1
		vHat := vData[i] / biasCorrection2

		// value = anchor - lr * m_hat / (sqrt(v_hat) + eps)
		value[i] = anchor[i] - a.lr*mHat/(math.Sqrt(vHat)+a.eps)
	}

	a.prox.Apply(p.Vector(), a.lr)

	if st.prevInc == nil {
		st.prevInc = mat.NewVecDense(p.Len(), nil)
	}
	st.prevInc.SubVec(p.Vector(), st.anchor)
	st.anchor, st.priorGrad = nil, nil

	if !allFiniteSlice(mData) || !allFiniteSlice(vData) {
		return fmt.Errorf("%w in moments of parameter %q", ErrNonFinite, p.Name())
	}
	return checkFinite(p)
}

// ZeroGrad clears gradients for all parameters.
func (a *FBFAdam) ZeroGrad() {
	for _, p := range a.params {
		p.ZeroGrad()
	}
}

// Phase returns the current protocol state.
func (a *FBFAdam) Phase() Phase {
	return a.phase
}

// GetLR returns the current step size.
func (a *FBFAdam) GetLR() float64 {
	return a.lr
}

// SetLR updates the step size.
func (a *FBFAdam) SetLR(lr float64) {
	a.lr = lr
}

// StepCount returns the number of correction steps taken for p.
func (a *FBFAdam) StepCount(p *param.Parameter) int {
	st := a.state[p]
	if st == nil {
		return 0
	}
	return st.step
}

func (a *FBFAdam) stateFor(p *param.Parameter) *adamState {
	st, ok := a.state[p]
	if !ok {
		st = &adamState{}
		a.state[p] = st
	}
	return st
}

func allFiniteSlice(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
