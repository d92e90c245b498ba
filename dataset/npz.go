package dataset

import (
	"fmt"
	"math"

	"github.com/ahmedtd/perceptron/perceptron"
	"github.com/chewxy/math32"
	"github.com/sbinet/npyio/npz"
)

// LoadNPZ reads a training set from the arrays xKey and yKey of the .npz
// archive at path.
//
// x must have shape (N, F).  y must have shape (N, R) or (N), the latter
// read as R = 1.  Both arrays must be stored in C order.  Supported dtypes
// are float64, float32, uint8 and int64.
func LoadNPZ(path, xKey, yKey string) (perceptron.TrainingSet, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening data file: %w", err)
	}
	defer r.Close()

	x, xShape, err := loadArray(r, xKey)
	if err != nil {
		return nil, fmt.Errorf("while reading %s: %w", xKey, err)
	}
	if len(xShape) != 2 {
		return nil, fmt.Errorf("%s has shape %v, want (examples, features)", xKey, xShape)
	}

	y, yShape, err := loadArray(r, yKey)
	if err != nil {
		return nil, fmt.Errorf("while reading %s: %w", yKey, err)
	}
	switch len(yShape) {
	case 1:
		yShape = []int{yShape[0], 1}
	case 2:
	default:
		return nil, fmt.Errorf("%s has shape %v, want (examples, outputs)", yKey, yShape)
	}

	if xShape[0] != yShape[0] {
		return nil, fmt.Errorf("%s has %d rows but %s has %d", xKey, xShape[0], yKey, yShape[0])
	}

	numExamples := xShape[0]
	numFeatures := xShape[1]
	numOutputs := yShape[1]

	set := make(perceptron.TrainingSet, numExamples)
	for k := 0; k < numExamples; k++ {
		set[k] = perceptron.Example{
			Input:  x[k*numFeatures : (k+1)*numFeatures : (k+1)*numFeatures],
			Target: y[k*numOutputs : (k+1)*numOutputs : (k+1)*numOutputs],
		}
	}
	return set, nil
}

func loadArray(r *npz.Reader, name string) ([]float64, []int, error) {
	header := r.Header(name)
	if header == nil {
		return nil, nil, fmt.Errorf("no entry for %s", name)
	}
	if header.Descr.Fortran {
		return nil, nil, fmt.Errorf("fortran order is not supported")
	}
	shape := header.Descr.Shape

	var out []float64
	switch header.Descr.Type {
	case "<f8":
		if err := r.Read(name, &out); err != nil {
			return nil, nil, fmt.Errorf("while reading float64 array: %w", err)
		}
		for i, v := range out {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, fmt.Errorf("element %d is not finite", i)
			}
		}
	case "<f4":
		var raw []float32
		if err := r.Read(name, &raw); err != nil {
			return nil, nil, fmt.Errorf("while reading float32 array: %w", err)
		}
		out = make([]float64, len(raw))
		for i, v := range raw {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				return nil, nil, fmt.Errorf("element %d is not finite", i)
			}
			out[i] = float64(v)
		}
	case "|u1":
		var raw []uint8
		if err := r.Read(name, &raw); err != nil {
			return nil, nil, fmt.Errorf("while reading uint8 array: %w", err)
		}
		out = make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
	case "<i8":
		var raw []int64
		if err := r.Read(name, &raw); err != nil {
			return nil, nil, fmt.Errorf("while reading int64 array: %w", err)
		}
		out = make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported dtype %s", header.Descr.Type)
	}

	size := 1
	for _, s := range shape {
		size *= s
	}
	if size != len(out) {
		return nil, nil, fmt.Errorf("shape %v does not match %d values", shape, len(out))
	}
	return out, shape, nil
}
