package perceptron

// BiasInput is the constant input paired with column 0 of the weight matrix.
const BiasInput = -1.0

// Activate applies the signum threshold element-wise: 1 where the linear
// output is >= 0, 0 otherwise.
func Activate(linear []float64) []int {
	out := make([]int, len(linear))
	for i, z := range linear {
		if z >= 0 {
			out[i] = 1
		}
	}
	return out
}

// Augment returns a copy of input with BiasInput prepended.
func Augment(input []float64) []float64 {
	out := make([]float64, len(input)+1)
	out[0] = BiasInput
	copy(out[1:], input)
	return out
}
