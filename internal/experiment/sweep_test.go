package experiment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saddle-ml/saddle/internal/experiment"
)

func TestSweep_ConfigsCartesianProduct(t *testing.T) {
	sweep := experiment.Sweep{
		Base:     experiment.DefaultConfig(),
		Seeds:    []int64{42, 1318, 2589, 3017, 9001},
		Inertias: []float64{0.0, 0.05, 0.1},
	}

	configs := sweep.Configs()
	require.Len(t, configs, 15)

	assert.Equal(t, int64(42), configs[0].Seed)
	assert.Equal(t, 0.0, configs[0].Inertia)
	assert.Equal(t, int64(9001), configs[14].Seed)
	assert.Equal(t, 0.1, configs[14].Inertia)
}

func TestSweep_EmptyListsFallBackToBase(t *testing.T) {
	base := experiment.DefaultConfig()
	base.Seed = 7
	sweep := experiment.Sweep{Base: base}

	configs := sweep.Configs()
	require.Len(t, configs, 1)
	assert.Equal(t, int64(7), configs[0].Seed)
}

func TestSweep_OutputDirsEncodeHyperparameters(t *testing.T) {
	base := experiment.DefaultConfig()
	base.OutputDir = "out"
	sweep := experiment.Sweep{
		Base:  base,
		Seeds: []int64{42},
	}

	configs := sweep.Configs()
	require.Len(t, configs, 1)
	assert.Contains(t, configs[0].OutputDir, "s42")
	assert.Contains(t, configs[0].OutputDir, "inertia=0.00")
	assert.Contains(t, configs[0].OutputDir, base.Method)
}

func TestSweep_ContinuesAfterFailedRun(t *testing.T) {
	base := experiment.DefaultConfig()
	base.Dim = 5
	base.MaxIter = 100
	base.Tolerance = 1e-30

	sweep := experiment.Sweep{
		Base: base,
		// Inertia 1.5 fails validation; the sweep must still finish the
		// remaining configuration.
		Inertias: []float64{1.5, 0.0},
	}

	results := sweep.Run()
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Config.Inertia)
}

func TestSweep_ParallelRunsKeepConfigurationOrder(t *testing.T) {
	base := experiment.DefaultConfig()
	base.Dim = 5
	base.MaxIter = 200
	base.Tolerance = 1e-30

	sweep := experiment.Sweep{
		Base:    base,
		Seeds:   []int64{1, 2, 3, 4},
		Workers: 4,
	}

	results := sweep.Run()
	require.Len(t, results, 4)
	for i, result := range results {
		assert.Equal(t, int64(i+1), result.Config.Seed)
	}
}
