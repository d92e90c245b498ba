// Package dataset provides training sets for the perceptron command: a small
// built-in set and a loader for NumPy .npz archives.
package dataset

import "github.com/ahmedtd/perceptron/perceptron"

// DemoInput is the vector classified by the demo run.  It equals the input
// of the second demo example.
var DemoInput = []float64{1, 0, 0}

// Demo returns three examples with three features and two outputs.
func Demo() perceptron.TrainingSet {
	return perceptron.TrainingSet{
		{Input: []float64{0, 1, 1}, Target: []float64{0, 0}},
		{Input: []float64{1, 0, 0}, Target: []float64{1, 1}},
		{Input: []float64{0.5, 0.5, 0.5}, Target: []float64{1, 1}},
	}
}
