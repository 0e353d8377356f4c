// Package layer provides neural network layer implementations.
package layer

import (
	"errors"

	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

var (
	// ErrNoRecord is returned by BackPropagate when no FeedForward call
	// recorded the state it needs.
	ErrNoRecord = errors.New("layer: back propagation without a preceding feed forward")
	// ErrConfig is returned for invalid construction parameters.
	ErrConfig = errors.New("layer: invalid configuration")
)

// Layer is a neural network layer.
type Layer interface {
	// Name identifies the layer, including in persisted artifact names.
	Name() string

	// FeedForward computes the layer output for input and records what the
	// next BackPropagate call needs.
	FeedForward(input *tensor.Tensor) (*tensor.Tensor, error)

	// BackPropagate takes the loss gradient with respect to the latest output
	// and returns the gradient with respect to that call's input. Layers with
	// learnable parameters update them as a side effect.
	BackPropagate(lossResultGradient *tensor.Tensor) (*tensor.Tensor, error)

	// Load restores learnable parameters from folder.
	Load(folder string) error

	// Save persists learnable parameters to folder.
	Save(folder string) error
}
