package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sbinet/npyio/npz"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestParseVector(t *testing.T) {
	got, err := parseVector("1, 0,0.5")
	require.NoError(t, err)
	if diff := cmp.Diff(got, []float64{1, 0, 0.5}); diff != "" {
		t.Errorf("Wrong vector; diff (-got +want)\n%s", diff)
	}

	_, err = parseVector("1,x")
	require.Error(t, err)
}

func TestTrainDemo(t *testing.T) {
	c := &TrainCommand{
		xKey:         "x.npy",
		yKey:         "y.npy",
		epochs:       1000,
		learningRate: 0.3,
		seed:         12345,
		input:        "1,0,0",
	}

	var out bytes.Buffer
	require.NoError(t, c.executeErr(context.Background(), &out))
	require.Equal(t, "Result is: [1 1]\n", out.String())
}

func TestTrainRejectsWrongInputLength(t *testing.T) {
	c := &TrainCommand{
		epochs:       10,
		learningRate: 0.3,
		seed:         1,
		input:        "1,0",
	}

	var out bytes.Buffer
	require.Error(t, c.executeErr(context.Background(), &out))
}

func TestTrainFromDataFileVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "and.npz")
	f, err := os.Create(path)
	require.NoError(t, err)
	wz := npz.NewWriter(f)
	require.NoError(t, wz.Write("inputs.npy", mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})))
	require.NoError(t, wz.Write("labels.npy", []float64{0, 0, 0, 1}))
	require.NoError(t, wz.Close())
	require.NoError(t, f.Close())

	c := &TrainCommand{
		dataFile:     path,
		xKey:         "inputs.npy",
		yKey:         "labels.npy",
		epochs:       1000,
		learningRate: 0.3,
		seed:         12345,
		input:        "1,1",
		verbose:      true,
	}

	var out bytes.Buffer
	require.NoError(t, c.executeErr(context.Background(), &out))
	require.Equal(t, "Result is: [1]\n", out.String())

	c.input = "0,1"
	out.Reset()
	require.NoError(t, c.executeErr(context.Background(), &out))
	require.Equal(t, "Result is: [0]\n", out.String())
}

func TestTrainMissingDataFile(t *testing.T) {
	c := &TrainCommand{
		dataFile:     filepath.Join(t.TempDir(), "missing.npz"),
		xKey:         "x.npy",
		yKey:         "y.npy",
		epochs:       1,
		learningRate: 0.3,
		seed:         1,
		input:        "1,0,0",
	}

	var out bytes.Buffer
	require.Error(t, c.executeErr(context.Background(), &out))
}

func TestTrainRejectsNaNInput(t *testing.T) {
	c := &TrainCommand{
		epochs:       10,
		learningRate: 0.3,
		seed:         1,
		input:        "NaN,0,0",
	}

	var out bytes.Buffer
	require.Error(t, c.executeErr(context.Background(), &out))
	require.Empty(t, out.String())
}
