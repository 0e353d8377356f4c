// Package numnet is the public entry point of the layer library.
package numnet

import (
	"github.com/FlavioCFOliveira/NumNet/internal/activations"
	"github.com/FlavioCFOliveira/NumNet/internal/layer"
	"github.com/FlavioCFOliveira/NumNet/internal/opt"
	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// Re-export common types and functions for easier access
type (
	Tensor             = tensor.Tensor
	Layer              = layer.Layer
	Sequential         = layer.Sequential
	BatchNormalization = layer.BatchNormalization
	BatchNormConfig    = layer.BatchNormConfig
	Optimizer          = opt.Optimizer
	SGD                = opt.SGD
	Activation         = activations.Activation
)

// Errors
var (
	ErrShape    = tensor.ErrShape
	ErrNoRecord = layer.ErrNoRecord
	ErrConfig   = layer.ErrConfig
)

// Tensors
func NewTensor(shape []int, data []float64) (*Tensor, error) {
	return tensor.New(shape, data)
}

func FromRows(rows [][]float64) (*Tensor, error) {
	return tensor.FromRows(rows)
}

// Activations
var (
	ReLUActivation = activations.ReLU{}
	Sigmoid        = activations.Sigmoid{}
	Tanh           = activations.Tanh{}
)

func LeakyReLU(alpha float64) Activation {
	return activations.LeakyReLU{Alpha: alpha}
}

// Layers
func DefaultBatchNormConfig() BatchNormConfig {
	return layer.DefaultBatchNormConfig()
}

func NewBatchNormalization(channels int, optimizer Optimizer, cfg BatchNormConfig) (*BatchNormalization, error) {
	return layer.NewBatchNormalization(channels, optimizer, cfg)
}

func ReLU() Layer {
	return layer.NewReLU()
}

// Flatten folds every axis after the batch axis into one.
func Flatten() Layer {
	return layer.NewFlatten()
}

func NewActivation(name string, act Activation) Layer {
	return layer.NewActivation(name, act)
}

func NewSequential(name string, layers ...Layer) *Sequential {
	return layer.NewSequential(name, layers...)
}

func NormalizedActivation(name string, channels int, optimizer Optimizer) (*Sequential, error) {
	return layer.NewNormalizedActivation(name, channels, optimizer)
}

// Schedulers
func StepLR(optimizer *SGD, stepSize int, gamma float64) opt.Scheduler {
	return opt.NewStepLR(optimizer, stepSize, gamma)
}

func ExponentialLR(optimizer *SGD, gamma float64) opt.Scheduler {
	return opt.NewExponentialLR(optimizer, gamma)
}

func ReduceLROnPlateau(optimizer *SGD, factor float64, patience int, threshold, minLR float64) opt.Scheduler {
	return opt.NewReduceLROnPlateau(optimizer, factor, patience, threshold, minLR)
}
