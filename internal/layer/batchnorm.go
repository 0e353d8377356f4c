package layer

import (
	"fmt"
	"math"

	"github.com/FlavioCFOliveira/NumNet/internal/opt"
	"github.com/FlavioCFOliveira/NumNet/internal/store"
	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// BatchNormConfig holds the hyperparameters of a BatchNormalization layer.
type BatchNormConfig struct {
	Name     string
	Momentum float64 // running statistics decay
	Epsilon  float64 // added to the variance before the square root
	Spatial  bool    // input is [batch, channels, height, width]
}

// DefaultBatchNormConfig returns momentum 0.9 and epsilon 1e-5 for flat input.
func DefaultBatchNormConfig() BatchNormConfig {
	return BatchNormConfig{
		Name:     "BatchNormalization",
		Momentum: 0.9,
		Epsilon:  1e-5,
	}
}

// batchNormRecord is the state of the latest FeedForward call, in compressed
// [N, channels] form. It is valid for exactly one BackPropagate call.
type batchNormRecord struct {
	shape         []int // shape of the uncompressed output
	input         *tensor.Tensor
	mean          *tensor.Tensor
	variance      *tensor.Tensor
	stddev        *tensor.Tensor
	standardScore *tensor.Tensor
	normalized    *tensor.Tensor
	gamma         *tensor.Tensor
	beta          *tensor.Tensor
}

// BatchNormalization normalizes each channel with batch statistics and applies
// a learnable scale (gamma) and shift (beta).
//
// Statistics are always taken from the current batch. Running statistics are
// maintained on every FeedForward but are not used for normalization.
type BatchNormalization struct {
	name      string
	channels  int
	momentum  float64
	epsilon   float64
	spatial   bool
	optimizer opt.Optimizer

	gamma *tensor.Tensor
	beta  *tensor.Tensor

	runningMean     *tensor.Tensor
	runningVariance *tensor.Tensor

	record *batchNormRecord
}

// NewBatchNormalization creates a batch normalization layer over channels.
func NewBatchNormalization(channels int, optimizer opt.Optimizer, cfg BatchNormConfig) (*BatchNormalization, error) {
	switch {
	case channels <= 0:
		return nil, fmt.Errorf("%w: channels must be positive, got %d", ErrConfig, channels)
	case optimizer == nil:
		return nil, fmt.Errorf("%w: optimizer is required", ErrConfig)
	case !(cfg.Epsilon > 0):
		return nil, fmt.Errorf("%w: epsilon must be positive, got %v", ErrConfig, cfg.Epsilon)
	case !(cfg.Momentum >= 0 && cfg.Momentum <= 1):
		return nil, fmt.Errorf("%w: momentum must be in [0, 1], got %v", ErrConfig, cfg.Momentum)
	}
	if cfg.Name == "" {
		cfg.Name = DefaultBatchNormConfig().Name
	}
	return &BatchNormalization{
		name:            cfg.Name,
		channels:        channels,
		momentum:        cfg.Momentum,
		epsilon:         cfg.Epsilon,
		spatial:         cfg.Spatial,
		optimizer:       optimizer,
		gamma:           tensor.Ones(channels),
		beta:            tensor.Zeros(channels),
		runningMean:     tensor.Zeros(channels),
		runningVariance: tensor.Zeros(channels),
	}, nil
}

// FeedForward normalizes input and records the intermediates for BackPropagate.
func (b *BatchNormalization) FeedForward(input *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := b.compress(input)
	if err != nil {
		return nil, fmt.Errorf("batchnorm %s: feed forward: %w", b.name, err)
	}

	mean := x.Mean(0)
	variance := x.Var(0)
	stddev := variance.AddScalar(b.epsilon).Sqrt()
	standardScore := x.Sub(mean).Div(stddev)
	output := standardScore.Mul(b.gamma).Add(b.beta)

	b.record = &batchNormRecord{
		shape:         input.Shape(),
		input:         x,
		mean:          mean,
		variance:      variance,
		stddev:        stddev,
		standardScore: standardScore,
		normalized:    output,
		gamma:         b.gamma,
		beta:          b.beta,
	}

	b.runningMean = mean.Scale(1 - b.momentum).Add(b.runningMean.Scale(b.momentum))
	b.runningVariance = variance.Scale(1 - b.momentum).Add(b.runningVariance.Scale(b.momentum))

	return b.expand(output, input.Shape())
}

// BackPropagate consumes the record of the latest FeedForward, updates gamma
// and beta through the optimizer and returns the input gradient.
//
// The input gradient uses a simplified derivation:
//
//	gamma * ((x - mean) * -0.5 * (varGrad - eps)^(-3/2) + (1 - 1/N) / sqrt(variance - eps))
//
// with varGrad = (2/N)(1 - 1/N); it does not propagate through the batch
// statistics per element. Variances at or below epsilon yield NaN.
func (b *BatchNormalization) BackPropagate(lossResultGradient *tensor.Tensor) (*tensor.Tensor, error) {
	rec := b.record
	if rec == nil {
		return nil, fmt.Errorf("batchnorm %s: %w", b.name, ErrNoRecord)
	}
	if !tensor.EqualShapes(lossResultGradient.Shape(), rec.shape) {
		return nil, fmt.Errorf("batchnorm %s: back propagate: %w: gradient %v, output %v",
			b.name, tensor.ErrShape, lossResultGradient.Shape(), rec.shape)
	}
	g, err := b.compress(lossResultGradient)
	if err != nil {
		return nil, fmt.Errorf("batchnorm %s: back propagate: %w", b.name, err)
	}
	b.record = nil

	lossBetaGradient := g.Sum(0)
	lossGammaGradient := g.Mul(rec.standardScore).Sum(0)

	n := float64(g.Shape()[0])
	meanGrad := 1 / n
	varGrad := (2 / n) * (1 - meanGrad)
	resultInputGradient := rec.input.Sub(rec.mean).
		Scale(-0.5 * math.Pow(varGrad-b.epsilon, -1.5)).
		Add(rec.variance.AddScalar(-b.epsilon).Sqrt().Reciprocal().Scale(1 - meanGrad)).
		Mul(b.gamma)
	lossInputGradient := g.Mul(resultInputGradient)

	beta, err := b.update(b.beta, lossBetaGradient)
	if err != nil {
		return nil, fmt.Errorf("batchnorm %s: update beta: %w", b.name, err)
	}
	gamma, err := b.update(b.gamma, lossGammaGradient)
	if err != nil {
		return nil, fmt.Errorf("batchnorm %s: update gamma: %w", b.name, err)
	}
	b.beta, b.gamma = beta, gamma

	return b.expand(lossInputGradient, rec.shape)
}

func (b *BatchNormalization) update(param, grad *tensor.Tensor) (*tensor.Tensor, error) {
	updated, err := b.optimizer.Optimize(param, grad, false)
	if err != nil {
		return nil, err
	}
	if !updated.SameShape(param) {
		return nil, fmt.Errorf("%w: optimizer returned %v for parameter %v", tensor.ErrShape, updated.Shape(), param.Shape())
	}
	return updated, nil
}

// compress validates x and, in spatial mode, folds [B, C, H, W] into [B*H*W, C].
func (b *BatchNormalization) compress(x *tensor.Tensor) (*tensor.Tensor, error) {
	shape := x.Shape()
	if !b.spatial {
		if len(shape) != 2 || shape[1] != b.channels || shape[0] == 0 {
			return nil, fmt.Errorf("%w: want [N>0, %d], got %v", tensor.ErrShape, b.channels, shape)
		}
		return x, nil
	}
	if len(shape) != 4 || shape[1] != b.channels || shape[0]*shape[2]*shape[3] == 0 {
		return nil, fmt.Errorf("%w: want [B, %d, H, W] with B*H*W > 0, got %v", tensor.ErrShape, b.channels, shape)
	}
	return compressSpatial(x)
}

func (b *BatchNormalization) expand(x *tensor.Tensor, shape []int) (*tensor.Tensor, error) {
	if !b.spatial {
		return x, nil
	}
	return expandSpatial(x, shape)
}

// compressSpatial transposes [B, C, H, W] to [B, H, W, C] and flattens it to [B*H*W, C].
func compressSpatial(x *tensor.Tensor) (*tensor.Tensor, error) {
	transposed, err := x.Transpose(0, 2, 3, 1)
	if err != nil {
		return nil, err
	}
	return transposed.Reshape(-1, x.Shape()[1])
}

// expandSpatial inverts compressSpatial for the original shape [B, C, H, W].
func expandSpatial(x *tensor.Tensor, shape []int) (*tensor.Tensor, error) {
	if len(shape) != 4 {
		return nil, fmt.Errorf("%w: spatial shape %v", tensor.ErrShape, shape)
	}
	nhwc, err := x.Reshape(shape[0], shape[2], shape[3], shape[1])
	if err != nil {
		return nil, err
	}
	return nhwc.Transpose(0, 3, 1, 2)
}

// Save writes gamma and beta to folder.
func (b *BatchNormalization) Save(folder string) error {
	s, err := store.Open(folder)
	if err != nil {
		return fmt.Errorf("batchnorm %s: save: %w", b.name, err)
	}
	if err := s.Save(b.artifact("gamma"), b.gamma); err != nil {
		return fmt.Errorf("batchnorm %s: save gamma: %w", b.name, err)
	}
	if err := s.Save(b.artifact("beta"), b.beta); err != nil {
		return fmt.Errorf("batchnorm %s: save beta: %w", b.name, err)
	}
	return nil
}

// Load reads gamma and beta from folder. A missing artifact keeps the current value.
func (b *BatchNormalization) Load(folder string) error {
	s, err := store.Open(folder)
	if err != nil {
		return fmt.Errorf("batchnorm %s: load: %w", b.name, err)
	}
	gamma, err := b.loadParam(s, "gamma", b.gamma)
	if err != nil {
		return err
	}
	beta, err := b.loadParam(s, "beta", b.beta)
	if err != nil {
		return err
	}
	b.gamma, b.beta = gamma, beta
	return nil
}

func (b *BatchNormalization) loadParam(s *store.Store, param string, current *tensor.Tensor) (*tensor.Tensor, error) {
	t, ok, err := s.Load(b.artifact(param))
	if err != nil {
		return nil, fmt.Errorf("batchnorm %s: load %s: %w", b.name, param, err)
	}
	if !ok {
		return current, nil
	}
	if !t.SameShape(current) {
		return nil, fmt.Errorf("batchnorm %s: load %s: %w: stored %v, want %v",
			b.name, param, tensor.ErrShape, t.Shape(), current.Shape())
	}
	return t, nil
}

// artifact names follow the <layer>.npy.<param>.npy convention of existing checkpoints.
func (b *BatchNormalization) artifact(param string) string {
	return fmt.Sprintf("%s.npy.%s.npy", b.name, param)
}

func (b *BatchNormalization) Name() string { return b.name }
func (b *BatchNormalization) Channels() int { return b.channels }
func (b *BatchNormalization) Momentum() float64 { return b.momentum }
func (b *BatchNormalization) Epsilon() float64 { return b.epsilon }
func (b *BatchNormalization) IsSpatial() bool { return b.spatial }
func (b *BatchNormalization) Gamma() *tensor.Tensor { return b.gamma }
func (b *BatchNormalization) Beta() *tensor.Tensor { return b.beta }
func (b *BatchNormalization) RunningMean() *tensor.Tensor { return b.runningMean }
func (b *BatchNormalization) RunningVariance() *tensor.Tensor { return b.runningVariance }
