package experiment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saddle-ml/saddle/internal/experiment"
)

// smallConfig is a fast, converging matrix-game run.
func smallConfig() experiment.Config {
	cfg := experiment.DefaultConfig()
	cfg.Dim = 10
	cfg.MaxIter = 20000
	cfg.Tolerance = 1e-8
	cfg.EvalFreq = 100000
	return cfg
}

func TestRunMatrixGame_Converges(t *testing.T) {
	result, err := experiment.RunMatrixGame(smallConfig())
	require.NoError(t, err)

	assert.Less(t, result.Iterations, 20000, "should stop on tolerance")
	assert.Less(t, result.DistX, 1e-2)
	assert.Less(t, result.DistY, 1e-2)
	assert.Less(t, result.DistXAvg, 0.5, "averaged iterate should also approach the saddle")
	assert.Equal(t, result.Iterations, result.Recorder.Len())
}

func TestRunMatrixGame_Deterministic(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxIter = 200
	cfg.Tolerance = 1e-30

	r1, err := experiment.RunMatrixGame(cfg)
	require.NoError(t, err)
	r2, err := experiment.RunMatrixGame(cfg)
	require.NoError(t, err)

	assert.Equal(t, r1.DistX, r2.DistX, "same seed must reproduce the run")
	assert.Equal(t, r1.DistY, r2.DistY)
}

func TestRunMatrixGame_FBFAdam(t *testing.T) {
	cfg := smallConfig()
	cfg.Method = experiment.MethodFBFAdam
	cfg.X.LR = 0.01
	cfg.Y.LR = 0.01
	cfg.MaxIter = 500
	cfg.Tolerance = 1e-30

	result, err := experiment.RunMatrixGame(cfg)
	require.NoError(t, err)
	assert.Equal(t, 500, result.Iterations)

	last, ok := result.Recorder.Last()
	require.True(t, ok)
	assert.True(t, last.GapKnown)
}

func TestRunMatrixGame_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Method = "sgd"

	_, err := experiment.RunMatrixGame(cfg)
	assert.Error(t, err)
}

func TestRunMatrixGame_WritesOutput(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxIter = 100
	cfg.Tolerance = 1e-30
	cfg.OutputDir = filepath.Join(t.TempDir(), "run")

	_, err := experiment.RunMatrixGame(cfg)
	require.NoError(t, err)

	for _, name := range []string{"config.json", "results.csv", "residual.png", "gap.png"} {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		assert.NoError(t, err, name)
	}
}
