package flattrain

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

// stubNet is a Network whose gradient pass is supplied by the test.
type stubNet struct {
	weights []float64
	grad    func(n *stubNet, d Datum, onto []float64) (float64, error)
}

func (n *stubNet) Weights() []float64 {
	return n.weights
}

func (n *stubNet) Clone() Network {
	c := &stubNet{weights: make([]float64, len(n.weights)), grad: n.grad}
	copy(c.weights, n.weights)
	return c
}

func (n *stubNet) Gradient(d Datum, onto []float64) (float64, error) {
	return n.grad(n, d, onto)
}

// sampleGradient makes a stubNet whose per-sample gradient is the sample's
// inputs and whose per-sample error is the sample's first output.
func sampleGradient() func(n *stubNet, d Datum, onto []float64) (float64, error) {
	return func(n *stubNet, d Datum, onto []float64) (float64, error) {
		for i := range d.Inputs {
			onto[i] += d.Inputs[i]
		}

		return d.Outputs[0], nil
	}
}

func TestIterationReducesAndBroadcasts(t *testing.T) {
	dataset := [][][]float64{
		{{1, -2, 0.5}, {1}},
		{{0.5, -1, 0}, {2}},
		{{2, 0.25, -0.5}, {0.5}},
		{{-0.5, -0.75, 1}, {1.5}},
		{{1, 1, 1}, {3}},
		{{0.25, -0.25, 0.25}, {1}},
	}

	// gradient sum and error sum across all samples, regardless of how they
	// end up partitioned
	gradSum := make([]float64, 3)
	var errSum float64
	for _, d := range dataset {
		for i := range gradSum {
			gradSum[i] += d[0][i]
		}
		errSum += d[1][0]
	}

	net := &stubNet{weights: []float64{0.5, -0.5, 1}, grad: sampleGradient()}
	start := make([]float64, 3)
	copy(start, net.weights)

	data, err := Data(dataset)
	if err != nil {
		t.Fatal(err)
	}

	tr, err := New(net, data, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Iteration(); err != nil {
		t.Fatal(err)
	}

	// first iteration has no gradient history: weights must not move
	for i := range net.weights {
		if net.weights[i] != start[i] {
			t.Errorf("weight %d moved to %v on the first iteration, want %v", i, net.weights[i], start[i])
		}
	}

	// the accumulator must be fully consumed
	for i, g := range tr.grads {
		if g != 0 {
			t.Errorf("gradient accumulator not consumed at %d (%v)", i, g)
		}
	}

	// the recorded gradient must be the exact sum of the partials
	for i := range gradSum {
		if !approx(tr.lastGrads[i], gradSum[i]) {
			t.Errorf("recorded gradient %d is %v, want %v", i, tr.lastGrads[i], gradSum[i])
		}
	}

	// reported error is the mean over workers
	if want := errSum / float64(tr.Workers()); !approx(tr.Error(), want) {
		t.Errorf("Error() = %v, want %v", tr.Error(), want)
	}

	// second iteration sees the same gradient signs: every weight moves by
	// its grown step, in the gradient's direction
	if err := tr.Iteration(); err != nil {
		t.Fatal(err)
	}

	conf := DefaultConfig()
	for i := range net.weights {
		want := start[i] + conf.sign(gradSum[i])*conf.InitialStep*conf.PositiveEta
		if !approx(net.weights[i], want) {
			t.Errorf("weight %d is %v after two iterations, want %v", i, net.weights[i], want)
		}
	}

	// broadcast completeness: every clone matches the canonical weights
	for wi, w := range tr.workers {
		clone := w.net.Weights()
		for i := range net.weights {
			if clone[i] != net.weights[i] {
				t.Errorf("worker %d weight %d is %v, want %v", wi, i, clone[i], net.weights[i])
			}
		}
	}

	// adaptive steps always stay within bounds
	for i, s := range tr.steps {
		if s < conf.MinStep || s > conf.MaxStep {
			t.Errorf("step %d out of bounds (%v)", i, s)
		}
	}
}

func TestSpanUnionMatchesSamples(t *testing.T) {
	dataset := make([][][]float64, 17)
	for i := range dataset {
		dataset[i] = [][]float64{{1}, {0}}
	}

	net := &stubNet{weights: []float64{0}, grad: sampleGradient()}

	data, err := Data(dataset)
	if err != nil {
		t.Fatal(err)
	}

	tr, err := New(net, data, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	total := 0
	low := 0
	for _, w := range tr.workers {
		if w.samples.low != low {
			t.Errorf("worker span starts at %d, want %d", w.samples.low, low)
		}

		total += w.samples.size()
		low = w.samples.high
	}

	if total != len(dataset) {
		t.Errorf("worker spans cover %d samples, want %d", total, len(dataset))
	}
}

type nonIndexed struct{}

func (nonIndexed) Get(i int) (Datum, error) {
	return Datum{}, nil
}

type emptySupplier struct{}

func (emptySupplier) Get(i int) (Datum, error) {
	return Datum{}, errors.Errorf("no samples")
}

func (emptySupplier) Len() int {
	return 0
}

func TestNewRejectsBadArguments(t *testing.T) {
	net := &stubNet{weights: []float64{0}, grad: sampleGradient()}
	data, err := Data([][][]float64{{{1}, {0}}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(nil, data, DefaultConfig()); err == nil {
		t.Error("New accepted a nil network")
	} else if _, ok := err.(NilArgError); !ok {
		t.Errorf("nil network returned %T, want NilArgError", err)
	}

	if _, err := New(net, nil, DefaultConfig()); err == nil {
		t.Error("New accepted a nil supplier")
	}

	if _, err := New(net, nonIndexed{}, DefaultConfig()); err == nil {
		t.Error("New accepted a non-indexable supplier")
	} else if _, ok := err.(UnsupportedTrainingSetError); !ok {
		t.Errorf("non-indexable supplier returned %T, want UnsupportedTrainingSetError", err)
	}

	if _, err := New(net, emptySupplier{}, DefaultConfig()); err != ErrNoSamples {
		t.Errorf("empty supplier returned %v, want ErrNoSamples", err)
	}

	if _, err := New(&stubNet{grad: sampleGradient()}, data, DefaultConfig()); err != ErrNoWeights {
		t.Errorf("weightless network returned %v, want ErrNoWeights", err)
	}

	bad := DefaultConfig()
	bad.PositiveEta = 0.5
	if _, err := New(net, data, bad); err == nil {
		t.Error("New accepted an invalid Config")
	}
}

type failSupplier struct {
	n, failAt int
}

func (s failSupplier) Get(i int) (Datum, error) {
	if i == s.failAt {
		return Datum{}, errors.Errorf("bad sample")
	}

	return Datum{Inputs: []float64{1}, Outputs: []float64{0}}, nil
}

func (s failSupplier) Len() int {
	return s.n
}

func TestIterationSurfacesWorkerFailure(t *testing.T) {
	net := &stubNet{weights: []float64{0.25}, grad: sampleGradient()}

	tr, err := New(net, failSupplier{n: 8, failAt: 3}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Iteration(); err == nil {
		t.Fatal("Iteration did not surface the worker failure")
	}

	// a failed iteration must not advance the weights or leave partials behind
	if net.weights[0] != 0.25 {
		t.Errorf("failed iteration moved weight to %v", net.weights[0])
	}
	for i, g := range tr.grads {
		if g != 0 {
			t.Errorf("failed iteration left gradient %v at %d", g, i)
		}
	}
}

// seekNet pulls its single weight toward a fixed target; its gradient sign
// flips as the weight crosses the target, exercising all three branches of
// the update rule over a full run.
type seekNet struct {
	weights []float64
	target  float64
}

func (n *seekNet) Weights() []float64 {
	return n.weights
}

func (n *seekNet) Clone() Network {
	c := &seekNet{weights: make([]float64, 1), target: n.target}
	c.weights[0] = n.weights[0]
	return c
}

func (n *seekNet) Gradient(d Datum, onto []float64) (float64, error) {
	diff := n.target - n.weights[0]
	onto[0] += diff
	return diff * diff, nil
}

func TestTrainApproachesTarget(t *testing.T) {
	dataset := make([][][]float64, 4)
	for i := range dataset {
		dataset[i] = [][]float64{{0}, {0}}
	}

	net := &seekNet{weights: []float64{0}, target: 2}

	data, err := Data(dataset)
	if err != nil {
		t.Fatal(err)
	}

	tr, err := New(net, data, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Train(TrainArgs{RunCondition: TrainUntil(300)}); err != nil {
		t.Fatal(err)
	}

	if diff := math.Abs(net.weights[0] - 2); diff >= 0.5 {
		t.Errorf("weight is %v after 300 iterations, want within 0.5 of 2", net.weights[0])
	}

	conf := DefaultConfig()
	for i, s := range tr.steps {
		if s < conf.MinStep || s > conf.MaxStep {
			t.Errorf("step %d out of bounds (%v)", i, s)
		}
	}
}

func TestTrainRequiresRunCondition(t *testing.T) {
	net := &stubNet{weights: []float64{0}, grad: sampleGradient()}
	data, err := Data([][][]float64{{{1}, {0}}})
	if err != nil {
		t.Fatal(err)
	}

	tr, err := New(net, data, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Train(TrainArgs{}); err == nil {
		t.Error("Train accepted a nil RunCondition")
	}
}

func TestTrainSendsStatus(t *testing.T) {
	net := &stubNet{weights: []float64{0}, grad: sampleGradient()}
	data, err := Data([][][]float64{{{1}, {0}}})
	if err != nil {
		t.Fatal(err)
	}

	tr, err := New(net, data, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	var got []int
	args := TrainArgs{
		RunCondition: TrainUntil(4),
		SendStatus:   Every(2),
		Update: func(r Result) {
			got = append(got, r.Iteration)
		},
	}

	if err := tr.Train(args); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("status updates at %v, want [2 4]", got)
	}
}
