package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Sum reduces t along axis by summation. Negative axes count from the end.
func (t *Tensor) Sum(axis int) *Tensor { return t.reduce(axis, floats.Sum) }

// Mean reduces t along axis by arithmetic mean.
func (t *Tensor) Mean(axis int) *Tensor {
	return t.reduce(axis, func(x []float64) float64 { return stat.Mean(x, nil) })
}

// Var reduces t along axis by population variance (divisor N).
func (t *Tensor) Var(axis int) *Tensor {
	return t.reduce(axis, func(x []float64) float64 {
		return stat.MomentAbout(2, x, stat.Mean(x, nil), nil)
	})
}

func (t *Tensor) reduce(axis int, f func([]float64) float64) *Tensor {
	rank := len(t.shape)
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		panic(fmt.Errorf("%w: axis %d out of range for shape %v", ErrShape, axis, t.shape))
	}
	outer := numel(t.shape[:axis])
	n := t.shape[axis]
	inner := numel(t.shape[axis+1:])
	shape := append(cloneInts(t.shape[:axis]), t.shape[axis+1:]...)
	out := make([]float64, outer*inner)
	buf := make([]float64, n)

	if rank == 2 && axis == 0 && n > 0 && inner > 0 {
		m := mat.NewDense(n, inner, t.data)
		for j := range out {
			out[j] = f(mat.Col(buf, j, m))
		}
		return &Tensor{shape: shape, data: out}
	}

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			for k := 0; k < n; k++ {
				buf[k] = t.data[(o*n+k)*inner+in]
			}
			out[o*inner+in] = f(buf)
		}
	}
	return &Tensor{shape: shape, data: out}
}
