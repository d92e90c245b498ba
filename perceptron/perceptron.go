// Package perceptron implements a single-layer perceptron that maps
// real-valued feature vectors to vectors of binary (0/1) outputs.
//
// A Model is trained online: every example in the training set adjusts the
// weight matrix as soon as it is seen, and training always runs the
// configured number of epochs.
package perceptron

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultLearningRate is the step size used unless WithLearningRate is given.
const DefaultLearningRate = 0.3

// Example is one training pair.  Target values must be 0 or 1.
type Example struct {
	Input  []float64
	Target []float64
}

// TrainingSet is iterated in order on every epoch.
type TrainingSet []Example

// Model owns the training set and the weight matrix.
//
// The weight matrix has shape (Outputs, Features+1).  Column 0 holds the
// bias weights, which are multiplied by BiasInput.
type Model struct {
	mu sync.RWMutex

	set          TrainingSet
	w            *mat.Dense
	learningRate float64
	epochs       int

	features int
	outputs  int
}

type options struct {
	rng          *rand.Rand
	weights      mat.Matrix
	learningRate float64
}

// Option configures New.
type Option func(*options)

// WithRand sets the random source used to initialize the weights.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithWeights sets the initial weight matrix instead of drawing it at
// random.  The matrix is copied.
func WithWeights(w mat.Matrix) Option {
	return func(o *options) {
		o.weights = w
	}
}

// WithLearningRate overrides DefaultLearningRate.
func WithLearningRate(rate float64) Option {
	return func(o *options) {
		o.learningRate = rate
	}
}

// New validates set and builds a model that will train for the given number
// of epochs.  The feature and output sizes are taken from the first example;
// every other example must match them.
func New(set TrainingSet, epochs int, opts ...Option) (*Model, error) {
	o := &options{
		learningRate: DefaultLearningRate,
	}
	for _, opt := range opts {
		opt(o)
	}

	if epochs < 0 {
		return nil, fmt.Errorf("%w: epoch count %d is negative", ErrInvalidInput, epochs)
	}
	if math.IsNaN(o.learningRate) || math.IsInf(o.learningRate, 0) || o.learningRate <= 0 {
		return nil, fmt.Errorf("%w: learning rate %v must be positive and finite", ErrInvalidInput, o.learningRate)
	}
	if err := validateSet(set); err != nil {
		return nil, err
	}

	features := len(set[0].Input)
	outputs := len(set[0].Target)

	var w *mat.Dense
	if o.weights != nil {
		r, c := o.weights.Dims()
		if r != outputs || c != features+1 {
			return nil, fmt.Errorf("%w: weights are %dx%d, want %dx%d", ErrDimensionMismatch, r, c, outputs, features+1)
		}
		w = mat.DenseCopyOf(o.weights)
	} else {
		rng := o.rng
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		data := make([]float64, outputs*(features+1))
		for i := range data {
			data[i] = rng.NormFloat64()
		}
		w = mat.NewDense(outputs, features+1, data)
	}

	return &Model{
		set:          copySet(set),
		w:            w,
		learningRate: o.learningRate,
		epochs:       epochs,
		features:     features,
		outputs:      outputs,
	}, nil
}

func validateSet(set TrainingSet) error {
	if len(set) == 0 {
		return fmt.Errorf("%w: training set is empty", ErrInvalidInput)
	}
	features := len(set[0].Input)
	outputs := len(set[0].Target)
	if features == 0 {
		return fmt.Errorf("%w: example 0 has no features", ErrInvalidInput)
	}
	if outputs == 0 {
		return fmt.Errorf("%w: example 0 has no targets", ErrInvalidInput)
	}
	for i, ex := range set {
		if len(ex.Input) != features {
			return fmt.Errorf("%w: example %d has %d features, want %d", ErrInvalidInput, i, len(ex.Input), features)
		}
		if len(ex.Target) != outputs {
			return fmt.Errorf("%w: example %d has %d targets, want %d", ErrInvalidInput, i, len(ex.Target), outputs)
		}
		if j, ok := allFinite(ex.Input); !ok {
			return fmt.Errorf("%w: example %d feature %d is %v", ErrInvalidInput, i, j, ex.Input[j])
		}
		for j, v := range ex.Target {
			if v != 0 && v != 1 {
				return fmt.Errorf("%w: example %d target %d is %v, want 0 or 1", ErrInvalidInput, i, j, v)
			}
		}
	}
	return nil
}

// allFinite reports whether v holds no NaN or Inf, and otherwise the index
// of the first one that does.
func allFinite(v []float64) (int, bool) {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i, false
		}
	}
	return 0, true
}

func copySet(set TrainingSet) TrainingSet {
	out := make(TrainingSet, len(set))
	for i, ex := range set {
		out[i] = Example{
			Input:  append([]float64(nil), ex.Input...),
			Target: append([]float64(nil), ex.Target...),
		}
	}
	return out
}

// Features is the length of the input vectors.
func (m *Model) Features() int { return m.features }

// Outputs is the length of the output vectors.
func (m *Model) Outputs() int { return m.outputs }

// Epochs is the number of passes a call to Learn makes.
func (m *Model) Epochs() int { return m.epochs }

// LearningRate is the step size applied to every weight update.
func (m *Model) LearningRate() float64 { return m.learningRate }

// Weights returns a copy of the current weight matrix.
func (m *Model) Weights() *mat.Dense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return mat.DenseCopyOf(m.w)
}

// Forward computes the linear output W·augmented.  augmented must already
// carry the bias input (see Augment).
func (m *Model) Forward(augmented []float64) ([]float64, error) {
	if len(augmented) != m.features+1 {
		return nil, fmt.Errorf("%w: augmented input has %d values, want %d", ErrDimensionMismatch, len(augmented), m.features+1)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.forward(augmented), nil
}

// forward requires m.mu to be held.
func (m *Model) forward(augmented []float64) []float64 {
	linear := mat.NewVecDense(m.outputs, nil)
	linear.MulVec(m.w, mat.NewVecDense(len(augmented), augmented))
	return linear.RawVector().Data
}

// errorFor returns target - prediction for ex along with the augmented
// input it was computed from.  Requires m.mu to be held.
func (m *Model) errorFor(ex Example) (errs, augmented []float64) {
	augmented = Augment(ex.Input)
	predicted := Activate(m.forward(augmented))

	actual := make([]float64, len(predicted))
	for i, p := range predicted {
		actual[i] = float64(p)
	}
	errs = make([]float64, m.outputs)
	floats.SubTo(errs, ex.Target, actual)
	return errs, augmented
}

// Learn runs Epochs passes over the training set, applying the perceptron
// rule W += rate * (target - predicted) ⊗ augmented after every example.
// Calling Learn again continues from the current weights.
func (m *Model) Learn() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for epoch := 0; epoch < m.epochs; epoch++ {
		for _, ex := range m.set {
			errs, augmented := m.errorFor(ex)
			m.w.RankOne(m.w, m.learningRate,
				mat.NewVecDense(len(errs), errs),
				mat.NewVecDense(len(augmented), augmented),
			)
		}
	}
}

// Run classifies a single input vector.  It does not modify the model.
func (m *Model) Run(input []float64) ([]int, error) {
	if len(input) != m.features {
		return nil, fmt.Errorf("%w: input has %d features, want %d", ErrDimensionMismatch, len(input), m.features)
	}
	if j, ok := allFinite(input); !ok {
		return nil, fmt.Errorf("%w: feature %d is %v", ErrInvalidInput, j, input[j])
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Activate(m.forward(Augment(input))), nil
}

// MSE sums the squared error of every output of every training example and
// divides by the number of examples.  The output count is not part of the
// denominator.
func (m *Model) MSE() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum float64
	for _, ex := range m.set {
		errs, _ := m.errorFor(ex)
		for _, e := range errs {
			sum += e * e
		}
	}
	return sum / float64(len(m.set))
}

// MaxError is the largest absolute error over all outputs of all training
// examples.  With binary targets it is either 0 or 1.
func (m *Model) MaxError() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var maxErr float64
	for _, ex := range m.set {
		errs, _ := m.errorFor(ex)
		for _, e := range errs {
			maxErr = math.Max(maxErr, math.Abs(e))
		}
	}
	return maxErr
}
