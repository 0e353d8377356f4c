// Package activations provides elementwise activation functions over tensors.
package activations

import (
	"math"

	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x) elementwise.
	Activate(x *tensor.Tensor) *tensor.Tensor

	// Derivative computes f'(x) elementwise.
	Derivative(x *tensor.Tensor) *tensor.Tensor
}

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (ReLU) Activate(x *tensor.Tensor) *tensor.Tensor { return x.Maximum(0) }

// Derivative returns 1 where x > 0, else 0
func (ReLU) Derivative(x *tensor.Tensor) *tensor.Tensor { return x.Greater(0) }

// LeakyReLU keeps a small slope for non-positive inputs.
type LeakyReLU struct {
	Alpha float64 // Slope for x <= 0
}

// Activate computes x if x > 0, else alpha*x
func (l LeakyReLU) Activate(x *tensor.Tensor) *tensor.Tensor {
	return tensor.Where(x.Greater(0), x, x.Scale(l.Alpha))
}

// Derivative returns 1 if x > 0, else alpha
func (l LeakyReLU) Derivative(x *tensor.Tensor) *tensor.Tensor {
	return tensor.Where(x.Greater(0), tensor.Scalar(1), tensor.Scalar(l.Alpha))
}

// Sigmoid activation function.
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (Sigmoid) Activate(x *tensor.Tensor) *tensor.Tensor { return x.Apply(sigmoid) }

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (Sigmoid) Derivative(x *tensor.Tensor) *tensor.Tensor {
	return x.Apply(func(v float64) float64 {
		s := sigmoid(v)
		return s * (1 - s)
	})
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (Tanh) Activate(x *tensor.Tensor) *tensor.Tensor { return x.Apply(math.Tanh) }

// Derivative computes 1 - tanh(x)^2
func (Tanh) Derivative(x *tensor.Tensor) *tensor.Tensor {
	return x.Apply(func(v float64) float64 {
		t := math.Tanh(v)
		return 1 - t*t
	})
}
