// Package diag provides convergence diagnostics for saddle-point runs.
//
// Two quantities are tracked per outer iteration:
//
//   - Fixed-point residual: how far one full extrapolation/correction cycle
//     moved the iterate. Convergence implies the residual tends to zero.
//   - Duality gap: a scalar distance from the saddle point. It exists only
//     for problems with a computable gap (the toy matrix game); runs
//     without one mark it not applicable instead of carrying stale values.
//
// Non-finite diagnostics indicate divergence and are surfaced as fatal
// errors rather than clamped.
package diag

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/saddle-ml/saddle/internal/linalg"
	"github.com/saddle-ml/saddle/internal/param"
)

// Point is one diagnostic observation.
type Point struct {
	Iteration int
	Residual  float64
	Gap       float64
	// GapKnown reports whether Gap was computed for this iteration. It is
	// false for problems without a computable gap.
	GapKnown bool
}

// Recorder collects the ordered diagnostic series of a run.
type Recorder struct {
	points []Point
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Observe appends a residual-only observation.
func (r *Recorder) Observe(iteration int, residual float64) error {
	return r.observe(Point{Iteration: iteration, Residual: residual})
}

// ObserveWithGap appends an observation including the duality gap.
func (r *Recorder) ObserveWithGap(iteration int, residual, gap float64) error {
	return r.observe(Point{Iteration: iteration, Residual: residual, Gap: gap, GapKnown: true})
}

func (r *Recorder) observe(p Point) error {
	if math.IsNaN(p.Residual) || math.IsInf(p.Residual, 0) {
		return fmt.Errorf("diag: non-finite residual at iteration %d", p.Iteration)
	}
	if p.GapKnown && (math.IsNaN(p.Gap) || math.IsInf(p.Gap, 0)) {
		return fmt.Errorf("diag: non-finite duality gap at iteration %d", p.Iteration)
	}
	r.points = append(r.points, p)
	return nil
}

// Points returns the recorded series in observation order.
func (r *Recorder) Points() []Point {
	return r.points
}

// Len returns the number of observations.
func (r *Recorder) Len() int {
	return len(r.points)
}

// Last returns the most recent observation.
//
// The second return value is false if nothing has been recorded.
func (r *Recorder) Last() (Point, bool) {
	if len(r.points) == 0 {
		return Point{}, false
	}
	return r.points[len(r.points)-1], true
}

// WriteCSV writes the series as CSV rows (iteration, residual, gap).
//
// The gap column is empty for observations where it is not applicable.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"iteration", "residual", "gap"}); err != nil {
		return err
	}
	for _, p := range r.points {
		gap := ""
		if p.GapKnown {
			gap = strconv.FormatFloat(p.Gap, 'e', -1, 64)
		}
		row := []string{
			strconv.Itoa(p.Iteration),
			strconv.FormatFloat(p.Residual, 'e', -1, 64),
			gap,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Residual computes the fixed-point residual between two snapshots of the
// same parameter set: the Euclidean norm of the stacked differences.
func Residual(before, after []*param.Parameter) float64 {
	var sum float64
	for i := range before {
		d := linalg.Distance(before[i].Vector(), after[i].Vector())
		sum += d * d
	}
	return math.Sqrt(sum)
}
