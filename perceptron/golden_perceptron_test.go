package perceptron

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAgreesWithHandcodedPerceptron(t *testing.T) {
	epochs := 500
	set := generateSeparableSet(40)

	m, err := New(set, epochs, WithRand(rand.New(rand.NewSource(12345))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	initial := rows(m.Weights())

	m.Learn()

	want := handcodedPerceptron(set, initial, DefaultLearningRate, epochs)
	if diff := cmp.Diff(rows(m.Weights()), want, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Disagreement with handcoded perceptron; diff (-got +want)\n%s", diff)
	}
	t.Logf("mse=%v max=%v", m.MSE(), m.MaxError())
}

// generateSeparableSet labels points on either side of two fixed planes.
func generateSeparableSet(n int) TrainingSet {
	r := rand.New(rand.NewSource(12345))

	set := make(TrainingSet, n)
	for k := 0; k < n; k++ {
		x0 := r.Float64()
		x1 := r.Float64()

		var y0, y1 float64
		if x1 > 0.8*x0+0.1 {
			y0 = 1
		}
		if x0+x1 > 1 {
			y1 = 1
		}

		set[k] = Example{
			Input:  []float64{x0, x1},
			Target: []float64{y0, y1},
		}
	}
	return set
}

func handcodedPerceptron(set TrainingSet, w [][]float64, rate float64, epochs int) [][]float64 {
	for e := 0; e < epochs; e++ {
		for _, ex := range set {
			a := append([]float64{-1}, ex.Input...)
			for i := range w {
				var z float64
				for j := range a {
					z += w[i][j] * a[j]
				}
				pred := 0.0
				if z >= 0 {
					pred = 1
				}
				for j := range a {
					w[i][j] += rate * (ex.Target[i] - pred) * a[j]
				}
			}
		}
	}
	return w
}
