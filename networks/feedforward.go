// Package networks provides flat (array-encoded) network implementations that
// can be trained by flattrain.
package networks

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/parka-ml/flattrain"
)

const threshold_value float64 = 1

// FeedForward is a fully-connected network with one sigmoid hidden layer and
// a sigmoid output layer. All weights and thresholds live in one contiguous
// slice: first the hidden layer's rows (each row is the weights from every
// input plus a trailing threshold), then the output layer's rows likewise.
type FeedForward struct {
	inputs, hidden, outputs int

	weights []float64

	// per-instance scratch for the forward/backward pass; safe because the
	// trainer never runs two passes on the same clone concurrently
	hiddenVals  []float64
	outputVals  []float64
	hiddenDelta []float64
	outputDelta []float64
}

// NewFeedForward creates a FeedForward with the given layer sizes and
// uniformly random initial weights, scaled down by fan-in.
func NewFeedForward(inputs, hidden, outputs int) (*FeedForward, error) {
	if inputs < 1 || hidden < 1 || outputs < 1 {
		return nil, errors.Errorf("all layer sizes must be >= 1 (%d, %d, %d)", inputs, hidden, outputs)
	}

	n := &FeedForward{
		inputs:      inputs,
		hidden:      hidden,
		outputs:     outputs,
		weights:     make([]float64, hidden*(inputs+1)+outputs*(hidden+1)),
		hiddenVals:  make([]float64, hidden),
		outputVals:  make([]float64, outputs),
		hiddenDelta: make([]float64, hidden),
		outputDelta: make([]float64, outputs),
	}

	for i := range n.weights {
		fanIn := float64(inputs)
		if i >= hidden*(inputs+1) {
			fanIn = float64(hidden)
		}

		n.weights[i] = (2*rand.Float64() - 1) / fanIn
	}

	return n, nil
}

// Weights returns the live flat weight storage.
func (n *FeedForward) Weights() []float64 {
	return n.weights
}

// Clone returns an independent copy with its own weight storage and scratch.
func (n *FeedForward) Clone() flattrain.Network {
	c := &FeedForward{
		inputs:      n.inputs,
		hidden:      n.hidden,
		outputs:     n.outputs,
		weights:     make([]float64, len(n.weights)),
		hiddenVals:  make([]float64, n.hidden),
		outputVals:  make([]float64, n.outputs),
		hiddenDelta: make([]float64, n.hidden),
		outputDelta: make([]float64, n.outputs),
	}

	copy(c.weights, n.weights)
	return c
}

// InputSize returns the number of input values the network expects.
func (n *FeedForward) InputSize() int {
	return n.inputs
}

// OutputSize returns the number of output values the network produces.
func (n *FeedForward) OutputSize() int {
	return n.outputs
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// outputBase is the index of the first output-layer weight.
func (n *FeedForward) outputBase() int {
	return n.hidden * (n.inputs + 1)
}

func (n *FeedForward) forward(inputs []float64) {
	for j := 0; j < n.hidden; j++ {
		row := j * (n.inputs + 1)

		sum := n.weights[row+n.inputs] * threshold_value
		for i := 0; i < n.inputs; i++ {
			sum += n.weights[row+i] * inputs[i]
		}

		n.hiddenVals[j] = sigmoid(sum)
	}

	base := n.outputBase()
	for k := 0; k < n.outputs; k++ {
		row := base + k*(n.hidden+1)

		sum := n.weights[row+n.hidden] * threshold_value
		for j := 0; j < n.hidden; j++ {
			sum += n.weights[row+j] * n.hiddenVals[j]
		}

		n.outputVals[k] = sigmoid(sum)
	}
}

// Run performs a forward pass and returns a copy of the network's outputs.
func (n *FeedForward) Run(inputs []float64) ([]float64, error) {
	if len(inputs) != n.inputs {
		return nil, errors.Errorf("wrong number of inputs (%d, network takes %d)", len(inputs), n.inputs)
	}

	n.forward(inputs)

	outs := make([]float64, n.outputs)
	copy(outs, n.outputVals)
	return outs, nil
}

// Gradient runs one forward/backward pass for the sample, adding the error
// gradient into onto and returning the sum of squared output errors. The
// gradient points in the direction of decreasing error, as flattrain.Network
// requires.
func (n *FeedForward) Gradient(d flattrain.Datum, onto []float64) (float64, error) {
	if len(d.Inputs) != n.inputs {
		return 0, errors.Errorf("sample has wrong number of inputs (%d, network takes %d)", len(d.Inputs), n.inputs)
	} else if len(d.Outputs) != n.outputs {
		return 0, errors.Errorf("sample has wrong number of outputs (%d, network gives %d)", len(d.Outputs), n.outputs)
	} else if len(onto) != len(n.weights) {
		return 0, errors.Errorf("gradient buffer has wrong length (%d, network has %d weights)", len(onto), len(n.weights))
	}

	n.forward(d.Inputs)

	var errSum float64
	for k := 0; k < n.outputs; k++ {
		diff := d.Outputs[k] - n.outputVals[k]
		errSum += diff * diff

		n.outputDelta[k] = diff * n.outputVals[k] * (1 - n.outputVals[k])
	}

	base := n.outputBase()
	for j := 0; j < n.hidden; j++ {
		var sum float64
		for k := 0; k < n.outputs; k++ {
			sum += n.outputDelta[k] * n.weights[base+k*(n.hidden+1)+j]
		}

		n.hiddenDelta[j] = sum * n.hiddenVals[j] * (1 - n.hiddenVals[j])
	}

	for k := 0; k < n.outputs; k++ {
		row := base + k*(n.hidden+1)
		for j := 0; j < n.hidden; j++ {
			onto[row+j] += n.outputDelta[k] * n.hiddenVals[j]
		}
		onto[row+n.hidden] += n.outputDelta[k] * threshold_value
	}

	for j := 0; j < n.hidden; j++ {
		row := j * (n.inputs + 1)
		for i := 0; i < n.inputs; i++ {
			onto[row+i] += n.hiddenDelta[j] * d.Inputs[i]
		}
		onto[row+n.inputs] += n.hiddenDelta[j] * threshold_value
	}

	return errSum, nil
}
