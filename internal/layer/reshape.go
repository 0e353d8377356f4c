package layer

import (
	"fmt"

	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// Flatten reshapes input to 2D (batch_size, flattened_features).
// This is useful for feeding spatial activations to a flat BatchNormalization.
type Flatten struct {
	name string

	// Original input shape for the backward pass
	inputShape []int
}

// NewFlatten creates a new flatten layer.
func NewFlatten() *Flatten {
	return &Flatten{name: "Flatten"}
}

func (f *Flatten) Name() string { return f.name }

// FeedForward keeps the batch axis and folds the remaining axes together.
func (f *Flatten) FeedForward(input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) == 0 {
		return nil, fmt.Errorf("flatten: %w: scalar input", tensor.ErrShape)
	}
	features := 1
	for _, d := range shape[1:] {
		features *= d
	}
	out, err := input.Reshape(shape[0], features)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	f.inputShape = shape
	return out, nil
}

// BackPropagate reshapes the gradient back to the latest input shape.
func (f *Flatten) BackPropagate(lossResultGradient *tensor.Tensor) (*tensor.Tensor, error) {
	if f.inputShape == nil {
		return nil, fmt.Errorf("flatten: %w", ErrNoRecord)
	}
	grad, err := lossResultGradient.Reshape(f.inputShape...)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	return grad, nil
}

func (f *Flatten) Load(folder string) error { return nil }
func (f *Flatten) Save(folder string) error { return nil }
