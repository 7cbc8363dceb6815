package experiment

import (
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/saddle-ml/saddle/internal/parallel"
)

// Sweep expands a base configuration over hyperparameter lists and runs
// every combination sequentially.
//
// A failed run is logged and the sweep moves on to the next configuration;
// there is no retry.
type Sweep struct {
	// Base is the configuration every run starts from.
	Base Config `mapstructure:"base" json:"base"`
	// Seeds to run. Empty means the base seed only.
	Seeds []int64 `mapstructure:"seeds" json:"seeds"`
	// Inertias to run. Empty means the base inertia only.
	Inertias []float64 `mapstructure:"inertias" json:"inertias"`
	// LRs are optional (x, y) step-size pairs. Empty means the base
	// settings only.
	LRs [][2]float64 `mapstructure:"lrs" json:"lrs"`
	// Workers is the number of runs to execute concurrently. Zero or one
	// means sequential.
	Workers int `mapstructure:"workers" json:"workers"`
}

// Configs expands the sweep into the full list of run configurations, one
// per combination, each with its own output directory encoding the varied
// hyperparameters.
func (s *Sweep) Configs() []Config {
	seeds := s.Seeds
	if len(seeds) == 0 {
		seeds = []int64{s.Base.Seed}
	}
	inertias := s.Inertias
	if len(inertias) == 0 {
		inertias = []float64{s.Base.Inertia}
	}
	lrs := s.LRs
	if len(lrs) == 0 {
		lrs = [][2]float64{{s.Base.X.LR, s.Base.Y.LR}}
	}

	var configs []Config
	for _, seed := range seeds {
		for _, inertia := range inertias {
			for _, lr := range lrs {
				cfg := s.Base
				cfg.Seed = seed
				cfg.Inertia = inertia
				cfg.X.LR = lr[0]
				cfg.Y.LR = lr[1]
				if s.Base.OutputDir != "" {
					cfg.OutputDir = runDir(s.Base.OutputDir, cfg)
				}
				configs = append(configs, cfg)
			}
		}
	}
	return configs
}

// Run executes every configuration of the sweep and returns the results of
// the runs that finished, in configuration order.
func (s *Sweep) Run() []*Result {
	configs := s.Configs()
	log.WithFields(log.Fields{
		"runs":    len(configs),
		"workers": s.Workers,
	}).Info("starting sweep")

	slots := make([]*Result, len(configs))
	parallel.ForEach(len(configs), s.Workers, func(i int) {
		cfg := configs[i]
		entry := log.WithFields(log.Fields{
			"run":     i + 1,
			"of":      len(configs),
			"seed":    cfg.Seed,
			"inertia": cfg.Inertia,
		})
		entry.Info("starting run")

		result, err := RunMatrixGame(cfg)
		if err != nil {
			entry.WithError(err).Error("run failed, continuing sweep")
			return
		}
		slots[i] = result
	})

	results := make([]*Result, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}

	log.WithFields(log.Fields{
		"finished": len(results),
		"failed":   len(configs) - len(results),
	}).Info("sweep done")
	return results
}

// runDir builds the per-run output path, encoding method, step sizes,
// inertia, seed and start time.
func runDir(base string, cfg Config) string {
	return filepath.Join(base,
		cfg.Method,
		fmt.Sprintf("lrx=%.1e_lry=%.1e", cfg.X.LR, cfg.Y.LR),
		fmt.Sprintf("inertia=%.2f", cfg.Inertia),
		fmt.Sprintf("s%d", cfg.Seed),
		fmt.Sprintf("%d", time.Now().Unix()),
	)
}
