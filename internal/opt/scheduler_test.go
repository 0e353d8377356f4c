package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepLR(t *testing.T) {
	sgd := &SGD{LearningRate: 1}
	s := NewStepLR(sgd, 2, 0.5)

	s.Step()
	assert.Equal(t, 1.0, s.GetLR())
	s.Step()
	assert.Equal(t, 0.5, s.GetLR())
	s.Step()
	s.Step()
	assert.Equal(t, 0.25, sgd.LearningRate)
}

func TestExponentialLR(t *testing.T) {
	sgd := &SGD{LearningRate: 1}
	s := NewExponentialLR(sgd, 0.5)
	for i := 0; i < 3; i++ {
		s.Step()
	}
	assert.Equal(t, 0.125, s.GetLR())
}

func TestReduceLROnPlateau(t *testing.T) {
	sgd := &SGD{LearningRate: 1}
	s := NewReduceLROnPlateau(sgd, 0.5, 2, 0, 0.3)

	s.StepWithLoss(1.0)
	s.StepWithLoss(0.9)
	assert.Equal(t, 1.0, s.GetLR(), "improving loss keeps the rate")

	s.StepWithLoss(0.95)
	s.StepWithLoss(0.95)
	assert.Equal(t, 0.5, s.GetLR())

	s.StepWithLoss(0.95)
	s.StepWithLoss(0.95)
	assert.Equal(t, 0.3, s.GetLR(), "rate is clamped at minLR")
}

func TestReduceLROnPlateauCooldown(t *testing.T) {
	sgd := &SGD{LearningRate: 1}
	s := NewReduceLROnPlateau(sgd, 0.5, 1, 0, 0)
	s.SetCooldown(2)

	s.StepWithLoss(1)
	s.StepWithLoss(1)
	assert.Equal(t, 0.5, s.GetLR())

	// Two cooldown epochs are ignored.
	s.StepWithLoss(1)
	s.StepWithLoss(1)
	assert.Equal(t, 0.5, s.GetLR())

	s.StepWithLoss(1)
	assert.Equal(t, 0.25, s.GetLR())
}

func TestSchedulersImplementScheduler(t *testing.T) {
	sgd := &SGD{LearningRate: 1}
	for _, s := range []Scheduler{
		NewStepLR(sgd, 1, 1),
		NewExponentialLR(sgd, 1),
		NewReduceLROnPlateau(sgd, 1, 1, 0, 0),
	} {
		s.Step()
		s.StepWithLoss(0)
		assert.Equal(t, 1.0, s.GetLR())
	}
}
