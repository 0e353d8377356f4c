package tensor

import "fmt"

// Reshape returns a tensor sharing t's elements with a new shape.
// At most one dimension may be -1; it is inferred from the element count.
func (t *Tensor) Reshape(dims ...int) (*Tensor, error) {
	shape := cloneInts(dims)
	infer := -1
	known := 1
	for i, d := range shape {
		switch {
		case d == -1:
			if infer != -1 {
				return nil, fmt.Errorf("%w: reshape %v has more than one inferred dimension", ErrShape, dims)
			}
			infer = i
		case d < 0:
			return nil, fmt.Errorf("%w: reshape %v has negative dimension", ErrShape, dims)
		default:
			known *= d
		}
	}
	if infer != -1 {
		if known == 0 || len(t.data)%known != 0 {
			return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrShape, t.shape, dims)
		}
		shape[infer] = len(t.data) / known
	}
	if numel(shape) != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrShape, t.shape, dims)
	}
	return &Tensor{shape: shape, data: t.data}, nil
}

// Transpose permutes the axes of t: axis i of the result is axis perm[i] of t.
func (t *Tensor) Transpose(perm ...int) (*Tensor, error) {
	n := len(t.shape)
	if len(perm) != n {
		return nil, fmt.Errorf("%w: permutation %v for rank %d", ErrShape, perm, n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return nil, fmt.Errorf("%w: invalid permutation %v", ErrShape, perm)
		}
		seen[p] = true
	}

	shape := make([]int, n)
	for i, p := range perm {
		shape[i] = t.shape[p]
	}
	src := strides(t.shape)
	out := make([]float64, len(t.data))
	idx := make([]int, n)
	for k := range out {
		off := 0
		for i, p := range perm {
			off += idx[i] * src[p]
		}
		out[k] = t.data[off]
		increment(idx, shape)
	}
	return &Tensor{shape: shape, data: out}, nil
}
