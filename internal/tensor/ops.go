package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Add returns t + o with broadcasting.
func (t *Tensor) Add(o *Tensor) *Tensor {
	return binary(t, o, floats.AddTo, func(a, b float64) float64 { return a + b })
}

// Sub returns t - o with broadcasting.
func (t *Tensor) Sub(o *Tensor) *Tensor {
	return binary(t, o, floats.SubTo, func(a, b float64) float64 { return a - b })
}

// Mul returns t * o elementwise with broadcasting.
func (t *Tensor) Mul(o *Tensor) *Tensor {
	return binary(t, o, floats.MulTo, func(a, b float64) float64 { return a * b })
}

// Div returns t / o elementwise with broadcasting.
func (t *Tensor) Div(o *Tensor) *Tensor {
	return binary(t, o, floats.DivTo, func(a, b float64) float64 { return a / b })
}

// Scale returns c * t.
func (t *Tensor) Scale(c float64) *Tensor {
	out := t.Data()
	floats.Scale(c, out)
	return &Tensor{shape: cloneInts(t.shape), data: out}
}

// AddScalar returns t + c.
func (t *Tensor) AddScalar(c float64) *Tensor {
	out := t.Data()
	floats.AddConst(c, out)
	return &Tensor{shape: cloneInts(t.shape), data: out}
}

// Apply returns f applied to every element.
func (t *Tensor) Apply(f func(float64) float64) *Tensor {
	out := make([]float64, len(t.data))
	for i, v := range t.data {
		out[i] = f(v)
	}
	return &Tensor{shape: cloneInts(t.shape), data: out}
}

// Sqrt returns the elementwise square root. Negative elements yield NaN.
func (t *Tensor) Sqrt() *Tensor { return t.Apply(math.Sqrt) }

// Pow returns every element raised to p.
func (t *Tensor) Pow(p float64) *Tensor {
	return t.Apply(func(v float64) float64 { return math.Pow(v, p) })
}

// Reciprocal returns 1/t elementwise.
func (t *Tensor) Reciprocal() *Tensor {
	return t.Apply(func(v float64) float64 { return 1 / v })
}

// Maximum returns max(t, c) elementwise.
func (t *Tensor) Maximum(c float64) *Tensor {
	return t.Apply(func(v float64) float64 { return math.Max(v, c) })
}

// Greater returns a mask holding 1 where t > c and 0 elsewhere.
func (t *Tensor) Greater(c float64) *Tensor {
	return t.Apply(func(v float64) float64 {
		if v > c {
			return 1
		}
		return 0
	})
}

// Where selects a where mask is non-zero and b elsewhere, broadcasting all three.
func Where(mask, a, b *Tensor) *Tensor {
	shape, err := BroadcastShapes(mask.shape, a.shape)
	if err == nil {
		shape, err = BroadcastShapes(shape, b.shape)
	}
	if err != nil {
		panic(err)
	}
	ms, as, bs := broadcastStrides(mask.shape, shape), broadcastStrides(a.shape, shape), broadcastStrides(b.shape, shape)
	out := make([]float64, numel(shape))
	idx := make([]int, len(shape))
	for k := range out {
		mo, ao, bo := 0, 0, 0
		for i, v := range idx {
			mo += v * ms[i]
			ao += v * as[i]
			bo += v * bs[i]
		}
		if mask.data[mo] != 0 {
			out[k] = a.data[ao]
		} else {
			out[k] = b.data[bo]
		}
		increment(idx, shape)
	}
	return &Tensor{shape: shape, data: out}
}

// BroadcastShapes returns the shape two operands broadcast to.
func BroadcastShapes(a, b []int) ([]int, error) {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := 0; i < n; i++ {
		da, db := 1, 1
		if j := len(a) - n + i; j >= 0 {
			da = a[j]
		}
		if j := len(b) - n + i; j >= 0 {
			db = b[j]
		}
		switch {
		case da == db, db == 1:
			out[i] = da
		case da == 1:
			out[i] = db
		default:
			return nil, fmt.Errorf("%w: cannot broadcast %v with %v", ErrShape, a, b)
		}
	}
	return out, nil
}

func binary(a, b *Tensor, same func(dst, s, t []float64) []float64, op func(x, y float64) float64) *Tensor {
	if a.SameShape(b) {
		out := make([]float64, len(a.data))
		same(out, a.data, b.data)
		return &Tensor{shape: cloneInts(a.shape), data: out}
	}
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		panic(err)
	}
	as, bs := broadcastStrides(a.shape, shape), broadcastStrides(b.shape, shape)
	out := make([]float64, numel(shape))
	idx := make([]int, len(shape))
	for k := range out {
		ao, bo := 0, 0
		for i, v := range idx {
			ao += v * as[i]
			bo += v * bs[i]
		}
		out[k] = op(a.data[ao], b.data[bo])
		increment(idx, shape)
	}
	return &Tensor{shape: shape, data: out}
}

// broadcastStrides returns strides of shape aligned to target, with zero
// strides on broadcast axes.
func broadcastStrides(shape, target []int) []int {
	s := strides(shape)
	out := make([]int, len(target))
	off := len(target) - len(shape)
	for i := range shape {
		if shape[i] != 1 {
			out[off+i] = s[i]
		}
	}
	return out
}

func increment(idx, shape []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}
