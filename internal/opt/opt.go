// Package opt provides optimization algorithms.
package opt

import (
	"fmt"

	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// Optimizer updates a parameter tensor from its gradient.
type Optimizer interface {
	// Optimize returns the updated parameter. It never modifies param or grad.
	// withRegularization asks the optimizer to apply its regularization term, if any.
	Optimize(param, grad *tensor.Tensor, withRegularization bool) (*tensor.Tensor, error)
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
	// WeightDecay is the L2 coefficient added to the gradient when
	// regularization is requested.
	WeightDecay float64
}

// Optimize computes params - lr * (gradients + weightDecay * params).
func (s SGD) Optimize(param, grad *tensor.Tensor, withRegularization bool) (*tensor.Tensor, error) {
	if !param.SameShape(grad) {
		return nil, fmt.Errorf("sgd: %w: parameter %v, gradient %v", tensor.ErrShape, param.Shape(), grad.Shape())
	}
	g := grad
	if withRegularization && s.WeightDecay != 0 {
		g = g.Add(param.Scale(s.WeightDecay))
	}
	return param.Sub(g.Scale(s.LearningRate)), nil
}

// GetLR returns the current learning rate.
func (s SGD) GetLR() float64 { return s.LearningRate }

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) { s.LearningRate = lr }

// LearningRater is an optimizer whose learning rate can be scheduled.
type LearningRater interface {
	GetLR() float64
	SetLR(lr float64)
}
