// Package tensor provides a small n-dimensional float64 array used by the layers.
//
// Tensors are row-major and treated as immutable: every operation returns a new
// tensor and never writes into its operands. Elementwise arithmetic follows NumPy
// broadcasting rules.
package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrShape is returned, or used as a panic value by arithmetic, when tensor
// shapes are incompatible.
var ErrShape = errors.New("tensor: dimension mismatch")

// Tensor is an n-dimensional array of float64 values.
type Tensor struct {
	shape []int
	data  []float64
}

// New creates a tensor with the given shape backed by a copy of data.
func New(shape []int, data []float64) (*Tensor, error) {
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrShape, shape)
		}
	}
	if n := numel(shape); n != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrShape, shape, n, len(data))
	}
	return &Tensor{shape: cloneInts(shape), data: append([]float64(nil), data...)}, nil
}

// FromVector creates a rank-1 tensor holding a copy of v.
func FromVector(v []float64) *Tensor {
	return &Tensor{shape: []int{len(v)}, data: append([]float64(nil), v...)}
}

// FromRows creates a rank-2 tensor from equally sized rows.
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 {
		return &Tensor{shape: []int{0, 0}}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return &Tensor{shape: []int{len(rows), cols}, data: data}, nil
}

// Full creates a tensor of the given shape with every element set to v.
func Full(v float64, shape ...int) *Tensor {
	data := make([]float64, numel(shape))
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}
	return &Tensor{shape: cloneInts(shape), data: data}
}

// Zeros creates a zero-filled tensor.
func Zeros(shape ...int) *Tensor { return Full(0, shape...) }

// Ones creates a one-filled tensor.
func Ones(shape ...int) *Tensor { return Full(1, shape...) }

// Scalar creates a rank-0 tensor.
func Scalar(v float64) *Tensor { return &Tensor{shape: []int{}, data: []float64{v}} }

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int { return cloneInts(t.shape) }

// Dims returns the number of axes.
func (t *Tensor) Dims() int { return len(t.shape) }

// Len returns the number of elements.
func (t *Tensor) Len() int { return len(t.data) }

// Data returns a copy of the elements in row-major order.
func (t *Tensor) Data() []float64 { return append([]float64(nil), t.data...) }

// At returns the element at the given index.
func (t *Tensor) At(idx ...int) float64 {
	if len(idx) != len(t.shape) {
		panic(fmt.Errorf("%w: index %v for shape %v", ErrShape, idx, t.shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			panic(fmt.Errorf("%w: index %v out of range for shape %v", ErrShape, idx, t.shape))
		}
		off = off*t.shape[i] + v
	}
	return t.data[off]
}

// SameShape reports whether t and o have identical shapes.
func (t *Tensor) SameShape(o *Tensor) bool { return EqualShapes(t.shape, o.shape) }

// Equal reports whether t and o have the same shape and elements.
func (t *Tensor) Equal(o *Tensor) bool {
	return t.SameShape(o) && floats.Equal(t.data, o.data)
}

// EqualApprox reports whether t and o have the same shape and elements within tol.
func (t *Tensor) EqualApprox(o *Tensor, tol float64) bool {
	return t.SameShape(o) && floats.EqualApprox(t.data, o.data, tol)
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", t.shape, t.data)
}

// EqualShapes reports whether two shapes are identical.
func EqualShapes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

func cloneInts(s []int) []int {
	return append(make([]int, 0, len(s)), s...)
}
