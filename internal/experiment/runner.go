package experiment

import (
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/saddle-ml/saddle/internal/diag"
	"github.com/saddle-ml/saddle/internal/linalg"
	"github.com/saddle-ml/saddle/internal/matrixgame"
	"github.com/saddle-ml/saddle/internal/param"
	"github.com/saddle-ml/saddle/internal/prox"
	"github.com/saddle-ml/saddle/internal/solver"
)

// Result summarizes a finished matrix-game run.
type Result struct {
	Config     Config
	Iterations int
	Recorder   *diag.Recorder
	// DistX and DistY are the final Euclidean distances to the
	// closed-form saddle point.
	DistX, DistY float64
	// DistXAvg and DistYAvg are the distances of the uniformly averaged
	// iterates, when averaging is enabled.
	DistXAvg, DistYAvg float64
	Elapsed            time.Duration
}

// RunMatrixGame executes one complete toy-problem experiment: build the
// problem from the seeded configuration, solve for the reference saddle
// point, run the two-player loop, and report distances and diagnostics.
//
// When OutputDir is set, the resolved config, a results.csv and log-log
// residual/gap figures are written beneath it.
func RunMatrixGame(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	problem := matrixgame.NewRandom(cfg.Dim, rng)

	xSol, ySol, err := problem.Solution()
	if err != nil {
		return nil, err
	}

	lipschitz := problem.Lipschitz()
	log.WithFields(log.Fields{
		"dim":       cfg.Dim,
		"seed":      cfg.Seed,
		"method":    cfg.Method,
		"lipschitz": lipschitz,
	}).Info("matrix game initialized")

	x := param.New("x", randomSlice(cfg.Dim, rng))
	y := param.New("y", randomSlice(cfg.Dim, rng))

	playerX, err := newPlayer(x, cfg, cfg.X, lipschitz)
	if err != nil {
		return nil, err
	}
	playerY, err := newPlayer(y, cfg, cfg.Y, lipschitz)
	if err != nil {
		return nil, err
	}
	if cfg.EMADecay > 0 {
		playerX.Averager = NewAverager(cfg.EMADecay)
		playerY.Averager = NewAverager(cfg.EMADecay)
	}

	loop := NewLoop(problem, playerX, playerY, LoopConfig{
		Tolerance: cfg.Tolerance,
		EvalFreq:  cfg.EvalFreq,
		Gap:       problem.Gap,
	})

	start := time.Now()
	iterations, err := loop.Run(cfg.MaxIter)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Config:     cfg,
		Iterations: iterations,
		Recorder:   loop.Recorder(),
		DistX:      linalg.Distance(x.Vector(), xSol),
		DistY:      linalg.Distance(y.Vector(), ySol),
		Elapsed:    time.Since(start),
	}
	if playerX.Averager != nil && playerX.Averager.Count() > 0 {
		result.DistXAvg = linalg.Distance(playerX.Averager.Average(), xSol)
		result.DistYAvg = linalg.Distance(playerY.Averager.Average(), ySol)
	}

	log.WithFields(log.Fields{
		"iterations": result.Iterations,
		"distX":      result.DistX,
		"distY":      result.DistY,
		"distXAvg":   result.DistXAvg,
		"distYAvg":   result.DistYAvg,
		"elapsed":    result.Elapsed.Round(time.Millisecond),
	}).Info("matrix game finished")

	if cfg.OutputDir != "" {
		if err := writeRunOutput(cfg, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// newPlayer builds a player from its settings, defaulting the step size to
// 1/Lipschitz.
func newPlayer(p *param.Parameter, cfg Config, settings PlayerSettings, lipschitz float64) (Player, error) {
	lr := settings.LR
	if lr == 0 {
		lr = 1 / lipschitz
	}

	op, err := prox.Parse(settings.Prox, settings.ProxParam)
	if err != nil {
		return Player{}, err
	}

	var s solver.Solver
	switch cfg.Method {
	case MethodFBFAdam:
		s = solver.NewFBFAdam([]*param.Parameter{p}, solver.FBFAdamConfig{
			LR:      lr,
			Betas:   [2]float64{cfg.Beta1, cfg.Beta2},
			Eps:     cfg.Epsilon,
			Inertia: cfg.Inertia,
			Prox:    op,
		})
	default:
		s = solver.NewFBF([]*param.Parameter{p}, solver.FBFConfig{
			LR:      lr,
			Inertia: cfg.Inertia,
			Prox:    op,
		})
	}

	return Player{Param: p, Solver: s}, nil
}

// writeRunOutput persists config, diagnostics and figures for one run.
func writeRunOutput(cfg Config, result *Result) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output dir %s", cfg.OutputDir)
	}
	if err := cfg.WriteJSON(cfg.OutputDir); err != nil {
		return err
	}

	path := filepath.Join(cfg.OutputDir, "results.csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	if err := result.Recorder.WriteCSV(f); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	return SaveFigures(result.Recorder, cfg.OutputDir)
}

func randomSlice(n int, rng *rand.Rand) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64()
	}
	return data
}

var _ Oracle = (*matrixgame.Problem)(nil)
