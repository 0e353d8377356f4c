package layer

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/NumNet/internal/opt"
	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// spyLayer adds a constant on the way forward and logs every call.
type spyLayer struct {
	name  string
	add   float64
	calls *[]string
	err   error
}

func (s *spyLayer) Name() string { return s.name }

func (s *spyLayer) FeedForward(input *tensor.Tensor) (*tensor.Tensor, error) {
	*s.calls = append(*s.calls, "forward "+s.name)
	if s.err != nil {
		return nil, s.err
	}
	return input.AddScalar(s.add), nil
}

func (s *spyLayer) BackPropagate(g *tensor.Tensor) (*tensor.Tensor, error) {
	*s.calls = append(*s.calls, "backward "+s.name)
	return g.Scale(2), nil
}

func (s *spyLayer) Load(folder string) error {
	*s.calls = append(*s.calls, "load "+s.name)
	return nil
}

func (s *spyLayer) Save(folder string) error {
	*s.calls = append(*s.calls, "save "+s.name)
	return s.err
}

func TestSequentialOrder(t *testing.T) {
	var calls []string
	a := &spyLayer{name: "a", add: 1, calls: &calls}
	b := &spyLayer{name: "b", add: 10, calls: &calls}
	seq := NewSequential("seq", a)
	seq.Add(b)
	assert.Equal(t, []Layer{a, b}, seq.Layers())

	out, err := seq.FeedForward(tensor.FromVector([]float64{0}))
	require.NoError(t, err)
	assert.Equal(t, []float64{11}, out.Data())

	grad, err := seq.BackPropagate(tensor.FromVector([]float64{1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, grad.Data())

	dir := t.TempDir()
	require.NoError(t, seq.Save(dir))
	require.NoError(t, seq.Load(dir))

	assert.Equal(t, []string{
		"forward a", "forward b",
		"backward b", "backward a",
		"save a", "save b",
		"load a", "load b",
	}, calls)
}

func TestSequentialStopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	seq := NewSequential("seq",
		&spyLayer{name: "a", calls: &calls, err: boom},
		&spyLayer{name: "b", calls: &calls},
	)

	_, err := seq.FeedForward(tensor.Zeros(1))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "layer 0 (a)")
	assert.ErrorIs(t, seq.Save(t.TempDir()), boom)
	assert.Equal(t, []string{"forward a", "save a"}, calls)
}

func TestSequentialLogsAtDebug(t *testing.T) {
	var calls []string
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	seq := NewSequential("seq", &spyLayer{name: "a", calls: &calls}).WithLogger(logger)

	_, err := seq.FeedForward(tensor.Zeros(2, 3))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "feed forward")
	assert.Contains(t, buf.String(), "layer=a")
	assert.Contains(t, buf.String(), "shape=\"[2 3]\"")
}

func TestNormalizedActivation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	set, err := NewNormalizedActivation("block1", 3, opt.SGD{LearningRate: 0.01})
	require.NoError(t, err)

	require.Len(t, set.Layers(), 2)
	bn, ok := set.Layers()[0].(*BatchNormalization)
	require.True(t, ok)
	assert.True(t, bn.IsSpatial())
	assert.Equal(t, "block1.BatchNormalization", bn.Name())
	assert.Equal(t, "block1.ReLU", set.Layers()[1].Name())

	x := randomTensor(t, rng, 2, 3, 4, 4)
	out, err := set.FeedForward(x)
	require.NoError(t, err)
	assert.Equal(t, x.Shape(), out.Shape())
	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, 0.0)
	}

	grad, err := set.BackPropagate(tensor.Ones(2, 3, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, x.Shape(), grad.Shape())

	dir := t.TempDir()
	require.NoError(t, set.Save(dir))
	other, err := NewNormalizedActivation("block1", 3, opt.SGD{LearningRate: 0.01})
	require.NoError(t, err)
	require.NoError(t, other.Load(dir))
	otherBN := other.Layers()[0].(*BatchNormalization)
	assert.True(t, otherBN.Beta().Equal(bn.Beta()))

	_, err = NewNormalizedActivation("bad", 0, opt.SGD{})
	assert.ErrorIs(t, err, ErrConfig)
}
