package prox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/saddle-ml/saddle/internal/prox"
)

func TestL1_SoftThreshold(t *testing.T) {
	// lambda*step = 0.1
	op := prox.L1(1.0)
	v := mat.NewVecDense(3, []float64{0.05, -0.2, 0.0})

	op.Apply(v, 0.1)
	assert.Equal(t, []float64{0.0, -0.1, 0.0}, v.RawVector().Data)
}

func TestL1_IdempotentBeyondFirstApplication(t *testing.T) {
	op := prox.L1(1.0)
	v := mat.NewVecDense(3, []float64{0.05, -0.2, 0.0})

	op.Apply(v, 0.1)
	first := append([]float64(nil), v.RawVector().Data...)

	op.Apply(v, 0.1)
	// Already-thresholded components shrink again; only the exact zeros
	// are fixed points, so idempotence holds for vectors the operator has
	// driven to zero.
	assert.Equal(t, []float64{0.0, 0.0, 0.0}, v.RawVector().Data)
	assert.Equal(t, 0.0, first[0])
}

func TestBoxClip(t *testing.T) {
	op := prox.BoxClip(0.01)
	v := mat.NewVecDense(4, []float64{0.5, -0.5, 0.005, 0.0})

	op.Apply(v, 0.1)
	assert.Equal(t, []float64{0.01, -0.01, 0.005, 0.0}, v.RawVector().Data)

	// Clipping is idempotent.
	op.Apply(v, 0.1)
	assert.Equal(t, []float64{0.01, -0.01, 0.005, 0.0}, v.RawVector().Data)
}

func TestNone_Identity(t *testing.T) {
	op := prox.None()
	v := mat.NewVecDense(2, []float64{3.0, -7.0})

	op.Apply(v, 0.5)
	assert.Equal(t, []float64{3.0, -7.0}, v.RawVector().Data)
	assert.True(t, op.IsIdentity())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		wantKind prox.Kind
		wantErr  bool
	}{
		{name: "none", wantKind: prox.KindNone},
		{name: "", wantKind: prox.KindNone},
		{name: "1norm", wantKind: prox.KindL1},
		{name: "clip", wantKind: prox.KindBoxClip},
		{name: "2norm", wantErr: true},
		{name: "unknown", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			op, err := prox.Parse(tc.name, 1.0)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "not supported")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, op.Kind())
		})
	}
}
