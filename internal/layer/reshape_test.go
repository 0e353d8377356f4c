package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

func TestFlattenRoundTrip(t *testing.T) {
	f := NewFlatten()
	x := tensor.Zeros(2, 3, 4, 5)

	out, err := f.FeedForward(x)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 60}, out.Shape())

	grad, err := f.BackPropagate(tensor.Ones(2, 60))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 5}, grad.Shape())
}

func TestFlattenErrors(t *testing.T) {
	f := NewFlatten()
	_, err := f.BackPropagate(tensor.Ones(2, 2))
	assert.ErrorIs(t, err, ErrNoRecord)

	_, err = f.FeedForward(tensor.Scalar(1))
	assert.ErrorIs(t, err, tensor.ErrShape)

	_, err = f.FeedForward(tensor.Zeros(2, 3))
	require.NoError(t, err)
	_, err = f.BackPropagate(tensor.Ones(7))
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestFlattenFeedsFlatBatchNormalization(t *testing.T) {
	bn := newTestBatchNorm(t, 4, false)
	seq := NewSequential("flat", NewFlatten(), bn)

	x, err := tensor.New([]int{2, 1, 2, 2}, []float64{1, 2, 3, 4, 3, 4, 5, 6})
	require.NoError(t, err)
	out, err := seq.FeedForward(x)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, out.Shape())

	grad, err := seq.BackPropagate(tensor.Ones(2, 4))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 2, 2}, grad.Shape())
}
