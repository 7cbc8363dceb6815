package experiment

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/saddle-ml/saddle/internal/diag"
)

// SaveFigures renders the recorded diagnostics as log-log PNG figures in
// dir: residual.png always, gap.png when the series carries a gap.
func SaveFigures(recorder *diag.Recorder, dir string) error {
	points := recorder.Points()
	if len(points) == 0 {
		return nil
	}

	residual := make(plotter.XYs, 0, len(points))
	gap := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		// Log scales cannot place iteration 0 or zero values.
		x := float64(p.Iteration + 1)
		if p.Residual > 0 {
			residual = append(residual, plotter.XY{X: x, Y: p.Residual})
		}
		if p.GapKnown && p.Gap > 0 {
			gap = append(gap, plotter.XY{X: x, Y: p.Gap})
		}
	}

	if err := saveLogLog(residual, "Fixed-point residual", dir, "residual.png"); err != nil {
		return err
	}
	if len(gap) > 0 {
		if err := saveLogLog(gap, "Gap function", dir, "gap.png"); err != nil {
			return err
		}
	}
	return nil
}

func saveLogLog(points plotter.XYs, title, dir, name string) error {
	if len(points) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.Wrap(err, "building line plot")
	}
	p.Add(line)

	path := filepath.Join(dir, name)
	if err := p.Save(8*vg.Inch, 7*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
