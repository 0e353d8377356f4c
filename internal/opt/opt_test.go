// Package opt provides unit tests for optimizers.
package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// TestSGDOptimize tests SGD update computation.
func TestSGDOptimize(t *testing.T) {
	sgd := SGD{LearningRate: 0.1}

	params := tensor.FromVector([]float64{1.0, 2.0, 3.0})
	gradients := tensor.FromVector([]float64{0.1, 0.2, 0.3})

	updated, err := sgd.Optimize(params, gradients, false)
	require.NoError(t, err)

	// Expected: params - lr * gradients
	expected := tensor.FromVector([]float64{
		1.0 - 0.1*0.1,
		2.0 - 0.1*0.2,
		3.0 - 0.1*0.3,
	})
	assert.True(t, updated.EqualApprox(expected, 1e-12), "got %v", updated)
}

// TestSGDLeavesInputsUntouched checks that the update is returned, not applied in place.
func TestSGDLeavesInputsUntouched(t *testing.T) {
	sgd := SGD{LearningRate: 0.5}
	params := tensor.FromVector([]float64{1, 2})
	gradients := tensor.FromVector([]float64{1, 1})

	_, err := sgd.Optimize(params, gradients, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, params.Data())
	assert.Equal(t, []float64{1, 1}, gradients.Data())
}

func TestSGDWeightDecayOnlyWithRegularization(t *testing.T) {
	sgd := SGD{LearningRate: 0.1, WeightDecay: 0.5}
	params := tensor.FromVector([]float64{2})
	gradients := tensor.FromVector([]float64{1})

	plain, err := sgd.Optimize(params, gradients, false)
	require.NoError(t, err)
	assert.InDelta(t, 2-0.1*1, plain.At(0), 1e-12)

	regularized, err := sgd.Optimize(params, gradients, true)
	require.NoError(t, err)
	assert.InDelta(t, 2-0.1*(1+0.5*2), regularized.At(0), 1e-12)
}

func TestSGDZeroLearningRate(t *testing.T) {
	sgd := SGD{}
	params := tensor.FromVector([]float64{1, 2, 3})
	updated, err := sgd.Optimize(params, tensor.Ones(3), false)
	require.NoError(t, err)
	assert.True(t, updated.Equal(params))
}

func TestSGDShapeMismatch(t *testing.T) {
	sgd := SGD{LearningRate: 0.1}
	_, err := sgd.Optimize(tensor.Zeros(2), tensor.Zeros(3), false)
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestSGDPointerIsOptimizer(t *testing.T) {
	sgd := &SGD{LearningRate: 0.1}
	var o Optimizer = sgd
	sgd.SetLR(1)

	updated, err := o.Optimize(tensor.FromVector([]float64{1}), tensor.FromVector([]float64{1}), false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.At(0))
}
