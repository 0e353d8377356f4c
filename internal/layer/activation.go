package layer

import (
	"fmt"

	"github.com/FlavioCFOliveira/NumNet/internal/activations"
	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// Activation applies an elementwise activation function. It has no learnable
// parameters, so Load and Save do nothing.
type Activation struct {
	name  string
	act   activations.Activation
	input *tensor.Tensor
}

// NewActivation creates an activation layer.
func NewActivation(name string, act activations.Activation) *Activation {
	return &Activation{name: name, act: act}
}

// NewReLU creates a layer computing max(0, x).
func NewReLU() *Activation {
	return NewActivation("ReLU", activations.ReLU{})
}

// FeedForward caches input and returns f(input).
func (a *Activation) FeedForward(input *tensor.Tensor) (*tensor.Tensor, error) {
	a.input = input
	return a.act.Activate(input), nil
}

// BackPropagate returns lossResultGradient * f'(input) for the cached input.
// The cache is kept, so repeated calls reuse the latest FeedForward input.
func (a *Activation) BackPropagate(lossResultGradient *tensor.Tensor) (*tensor.Tensor, error) {
	if a.input == nil {
		return nil, fmt.Errorf("activation %s: %w", a.name, ErrNoRecord)
	}
	if !lossResultGradient.SameShape(a.input) {
		return nil, fmt.Errorf("activation %s: %w: gradient %v, input %v",
			a.name, tensor.ErrShape, lossResultGradient.Shape(), a.input.Shape())
	}
	return lossResultGradient.Mul(a.act.Derivative(a.input)), nil
}

func (a *Activation) Name() string { return a.name }

// SetName renames the layer.
func (a *Activation) SetName(name string) { a.name = name }

func (a *Activation) Load(folder string) error { return nil }
func (a *Activation) Save(folder string) error { return nil }
