package flattrain

import (
	"github.com/pkg/errors"
)

// A worker owns a private clone of the network and a fixed span of the
// training set. It is created once by New and reused every iteration; the
// Trainer overwrites its clone's weights after each update.
type worker struct {
	net     Network
	data    IndexedSupplier
	samples span

	// scratch partial-gradient buffer, same length as the weight vector
	grad []float64
}

func newWorker(net Network, data IndexedSupplier, samples span, numWeights int) *worker {
	return &worker{
		net:     net,
		data:    data,
		samples: samples,
		grad:    make([]float64, numWeights),
	}
}

// run computes the worker's partial gradient and partial error over its span,
// one forward/backward pass per sample. The returned slice is the worker's
// own scratch buffer; the caller must consume it before the next run.
//
// On failure the partials accumulated so far are still returned, so that the
// caller can keep its report bookkeeping consistent.
func (w *worker) run() ([]float64, float64, error) {
	for i := range w.grad {
		w.grad[i] = 0
	}

	var errSum float64
	for i := w.samples.low; i < w.samples.high; i++ {
		d, err := w.data.Get(i)
		if err != nil {
			return w.grad, errSum, errors.Wrapf(err, "failed to get sample %d\n", i)
		}

		e, err := w.net.Gradient(d, w.grad)
		if err != nil {
			return w.grad, errSum, errors.Wrapf(err, "gradient pass failed on sample %d\n", i)
		}

		errSum += e
	}

	return w.grad, errSum, nil
}
