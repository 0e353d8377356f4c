package layer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FlavioCFOliveira/NumNet/internal/opt"
	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// Sequential chains layers: FeedForward runs them in order and BackPropagate
// in reverse, threading each result into the next call.
type Sequential struct {
	name   string
	layers []Layer
	logger *slog.Logger
}

// NewSequential creates a Sequential layer.
func NewSequential(name string, layers ...Layer) *Sequential {
	return &Sequential{name: name, layers: layers}
}

// WithLogger sets a logger receiving a debug record per child call.
func (s *Sequential) WithLogger(logger *slog.Logger) *Sequential {
	s.logger = logger
	return s
}

// Add appends a layer.
func (s *Sequential) Add(l Layer) { s.layers = append(s.layers, l) }

// Layers returns the child layers in forward order.
func (s *Sequential) Layers() []Layer { return s.layers }

func (s *Sequential) Name() string { return s.name }

func (s *Sequential) FeedForward(input *tensor.Tensor) (*tensor.Tensor, error) {
	curr := input
	for i, l := range s.layers {
		out, err := l.FeedForward(curr)
		if err != nil {
			return nil, fmt.Errorf("%s: layer %d (%s): %w", s.name, i, l.Name(), err)
		}
		s.debug("feed forward", l, out)
		curr = out
	}
	return curr, nil
}

func (s *Sequential) BackPropagate(lossResultGradient *tensor.Tensor) (*tensor.Tensor, error) {
	curr := lossResultGradient
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		grad, err := l.BackPropagate(curr)
		if err != nil {
			return nil, fmt.Errorf("%s: layer %d (%s): %w", s.name, i, l.Name(), err)
		}
		s.debug("back propagate", l, grad)
		curr = grad
	}
	return curr, nil
}

func (s *Sequential) Save(folder string) error {
	for _, l := range s.layers {
		if err := l.Save(folder); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (s *Sequential) Load(folder string) error {
	for _, l := range s.layers {
		if err := l.Load(folder); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (s *Sequential) debug(msg string, l Layer, out *tensor.Tensor) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, msg,
		slog.String("sequential", s.name),
		slog.String("layer", l.Name()),
		slog.Any("shape", out.Shape()),
	)
}

// NewNormalizedActivation builds a spatial BatchNormalization followed by a
// ReLU, named <name>.BatchNormalization and <name>.ReLU.
func NewNormalizedActivation(name string, channels int, optimizer opt.Optimizer) (*Sequential, error) {
	cfg := DefaultBatchNormConfig()
	cfg.Name = name + ".BatchNormalization"
	cfg.Spatial = true
	bn, err := NewBatchNormalization(channels, optimizer, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	relu := NewReLU()
	relu.SetName(name + ".ReLU")
	return NewSequential(name, bn, relu), nil
}
