package flattrain

import (
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Trainer coordinates parallel gradient accumulation and the RPROP weight
// update for one Network. It owns the canonical weight vector (aliased to the
// network's own storage) and the per-weight adaptive state; workers only ever
// see broadcast copies of the weights.
//
// A Trainer is driven from a single goroutine: Iteration (or Train) must not
// be called concurrently with itself or with the accessors.
type Trainer struct {
	net  Network
	data IndexedSupplier
	conf Config

	// canonical weight vector; aliases net.Weights()
	weights []float64

	// per-weight adaptive state
	grads     []float64
	lastGrads []float64
	steps     []float64

	workers []*worker

	// reportMux serializes the workers' once-per-iteration reports; it is the
	// only lock in the package.
	reportMux sync.Mutex
	errSum    float64
	workerErr error

	lastError float64
}

// New creates a Trainer for the given network and training set, with one
// worker per hardware thread (see Threads), each holding an independent clone
// of the network.
//
// The data must satisfy IndexedSupplier; anything else is rejected with
// UnsupportedTrainingSetError, since static partitioning needs random access
// and a count. An empty training set is rejected with ErrNoSamples. On any
// error no workers are created and no trainer is returned.
func New(net Network, data DataSupplier, conf Config) (*Trainer, error) {
	if net == nil {
		return nil, NilArgError{"Network"}
	} else if data == nil {
		return nil, NilArgError{"DataSupplier"}
	}

	if err := conf.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid RPROP configuration\n")
	}

	indexed, ok := data.(IndexedSupplier)
	if !ok {
		return nil, UnsupportedTrainingSetError{"no Len method"}
	}

	weights := net.Weights()
	if len(weights) == 0 {
		return nil, ErrNoWeights
	}

	spans, err := partition(indexed.Len(), Threads())
	if err != nil {
		return nil, err
	}

	t := &Trainer{
		net:       net,
		data:      indexed,
		conf:      conf,
		weights:   weights,
		grads:     make([]float64, len(weights)),
		lastGrads: make([]float64, len(weights)),
		steps:     make([]float64, len(weights)),
		workers:   make([]*worker, len(spans)),
	}

	for i := range t.steps {
		t.steps[i] = conf.InitialStep
	}

	for i, sp := range spans {
		t.workers[i] = newWorker(net.Clone(), indexed, sp, len(weights))
	}

	return t, nil
}

// report folds one worker's partial results into the shared accumulators.
// It is the only operation contended by multiple goroutines; each worker
// calls it exactly once per iteration, so a single coarse lock is enough.
// Summation is commutative, so completion order does not matter beyond
// floating-point rounding.
func (t *Trainer) report(partial []float64, errSum float64, err error) {
	t.reportMux.Lock()
	defer t.reportMux.Unlock()

	floats.Add(t.grads, partial)
	t.errSum += errSum

	if err != nil && t.workerErr == nil {
		t.workerErr = err
	}
}

// Iteration performs one training step: it dispatches every worker over its
// sample span in parallel, blocks until all have reported, applies the RPROP
// update to every weight, and broadcasts the updated weight vector into every
// worker's clone.
//
// There is no timeout; a stalled worker stalls the iteration. If any worker
// fails, Iteration returns its error after the barrier without updating the
// weights — partial reports are never consumed as a training step.
func (t *Trainer) Iteration() error {
	t.errSum = 0
	t.workerErr = nil

	var wg sync.WaitGroup
	wg.Add(len(t.workers))
	for i := range t.workers {
		go func(id int) {
			defer wg.Done()

			grad, errSum, err := t.workers[id].run()
			if err != nil {
				err = errors.Wrapf(err, "worker %d failed\n", id)
			}

			t.report(grad, errSum, err)
		}(i)
	}
	wg.Wait()

	if t.workerErr != nil {
		// leave the accumulator clean for the next attempt
		for i := range t.grads {
			t.grads[i] = 0
		}
		return t.workerErr
	}

	for i := range t.weights {
		t.conf.update(i, t.weights, t.grads, t.lastGrads, t.steps)
	}

	t.lastError = t.errSum / float64(len(t.workers))

	// broadcast: every clone restarts the next iteration from identical weights
	for _, w := range t.workers {
		copy(w.net.Weights(), t.weights)
	}

	return nil
}

// Error returns the mean of the workers' reported errors from the most recent
// iteration. It is only meaningful after Iteration has completed at least
// once.
func (t *Trainer) Error() float64 {
	return t.lastError
}

// Network returns the network being trained.
func (t *Trainer) Network() Network {
	return t.net
}

// Data returns the training set supplied at construction.
func (t *Trainer) Data() IndexedSupplier {
	return t.data
}

// Workers returns the number of gradient workers the Trainer dispatches each
// iteration.
func (t *Trainer) Workers() int {
	return len(t.workers)
}
