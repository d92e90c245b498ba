package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ahmedtd/perceptron/dataset"
	"github.com/ahmedtd/perceptron/perceptron"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type TrainCommand struct {
	dataFile string
	xKey     string
	yKey     string

	epochs       int
	learningRate float64
	seed         int64

	input   string
	verbose bool
}

var _ subcommands.Command = (*TrainCommand)(nil)

func (*TrainCommand) Name() string {
	return "train"
}

func (*TrainCommand) Synopsis() string {
	return "Train the perceptron and classify one input"
}

func (*TrainCommand) Usage() string {
	return `train [--data-file=set.npz] [--epochs=N] [--input=v0,v1,...]
`
}

func (c *TrainCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dataFile, "data-file", "", "Path to an .npz file holding the training set (empty for the built-in demo set)")
	f.StringVar(&c.xKey, "x-key", "x.npy", "Name of the input array inside the .npz file")
	f.StringVar(&c.yKey, "y-key", "y.npy", "Name of the target array inside the .npz file")

	f.IntVar(&c.epochs, "epochs", 1000, "Number of passes over the training set")
	f.Float64Var(&c.learningRate, "learning-rate", perceptron.DefaultLearningRate, "Perceptron learning rate")
	f.Int64Var(&c.seed, "seed", 12345, "Seed for weight initialization (0 seeds from the clock)")

	f.StringVar(&c.input, "input", "1,0,0", "Comma-separated input vector to classify after training")
	f.BoolVar(&c.verbose, "verbose", false, "Log the trained weights")
}

func (c *TrainCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx, os.Stdout); err != nil {
		log.Error().Err(err).Msg("train failed")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *TrainCommand) executeErr(ctx context.Context, out io.Writer) error {
	logger := log.Logger.Level(zerolog.InfoLevel)
	if c.verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	set, source, err := c.loadSet()
	if err != nil {
		return fmt.Errorf("while loading training set: %w", err)
	}

	input, err := parseVector(c.input)
	if err != nil {
		return fmt.Errorf("while parsing --input: %w", err)
	}

	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	model, err := perceptron.New(set, c.epochs,
		perceptron.WithRand(rand.New(rand.NewSource(seed))),
		perceptron.WithLearningRate(c.learningRate),
	)
	if err != nil {
		return fmt.Errorf("while building model: %w", err)
	}

	logger.Info().
		Str("source", source).
		Int("examples", len(set)).
		Int("features", model.Features()).
		Int("outputs", model.Outputs()).
		Int("epochs", model.Epochs()).
		Float64("learning_rate", model.LearningRate()).
		Int64("seed", seed).
		Msg("training set loaded")

	start := time.Now()
	model.Learn()

	logger.Info().
		Dur("elapsed", time.Since(start)).
		Float64("mse", model.MSE()).
		Float64("max_error", model.MaxError()).
		Msg("training finished")

	if logger.GetLevel() <= zerolog.DebugLevel {
		w := model.Weights()
		r, _ := w.Dims()
		for i := 0; i < r; i++ {
			logger.Debug().Int("output", i).Floats64("weights", w.RawRowView(i)).Msg("trained weights")
		}
	}

	output, err := model.Run(input)
	if err != nil {
		return fmt.Errorf("while classifying input: %w", err)
	}

	fmt.Fprintf(out, "Result is: %v\n", output)
	return nil
}

func (c *TrainCommand) loadSet() (perceptron.TrainingSet, string, error) {
	if c.dataFile == "" {
		return dataset.Demo(), "demo", nil
	}
	set, err := dataset.LoadNPZ(c.dataFile, c.xKey, c.yKey)
	if err != nil {
		return nil, "", err
	}
	return set, c.dataFile, nil
}

func parseVector(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	v := make([]float64, 0, len(fields))
	for i, field := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		v = append(v, x)
	}
	return v, nil
}
