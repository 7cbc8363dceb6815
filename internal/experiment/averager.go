package experiment

import (
	"gonum.org/v1/gonum/mat"
)

// Averager tracks a uniform running average and an exponential moving
// average of a player's iterates.
//
// Both averages are updated once per correction step. Averaged iterates of
// the generator-side player are what adversarial training evaluates, while
// the raw iterate keeps oscillating around the saddle point.
type Averager struct {
	decay float64
	count int
	avg   *mat.VecDense
	ema   *mat.VecDense
}

// NewAverager creates an averager with the given EMA decay (e.g. 0.9999).
func NewAverager(decay float64) *Averager {
	return &Averager{decay: decay}
}

// Update folds the current iterate into both averages.
func (a *Averager) Update(value *mat.VecDense) {
	if a.avg == nil {
		a.avg = mat.VecDenseCopyOf(value)
		a.ema = mat.VecDenseCopyOf(value)
		a.count = 1
		return
	}

	a.count++
	// avg = avg*(n-1)/n + value/n
	n := float64(a.count)
	a.avg.ScaleVec((n-1)/n, a.avg)
	a.avg.AddScaledVec(a.avg, 1/n, value)

	// ema = ema*decay + value*(1-decay)
	a.ema.ScaleVec(a.decay, a.ema)
	a.ema.AddScaledVec(a.ema, 1-a.decay, value)
}

// Average returns the uniform running average, or nil before any update.
func (a *Averager) Average() *mat.VecDense {
	return a.avg
}

// EMA returns the exponential moving average, or nil before any update.
func (a *Averager) EMA() *mat.VecDense {
	return a.ema
}

// Count returns the number of folded iterates.
func (a *Averager) Count() int {
	return a.count
}
