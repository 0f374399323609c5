package flattrain

import (
	"github.com/pkg/errors"
)

// A wrapper for sending back the progress of the training
type Result struct {
	// The number of completed iterations
	Iteration int

	// Mean worker error from the most recent iteration
	Error float64
}

type TrainArgs struct {
	// RunCondition will be called before each iteration to determine if
	// training should continue, given the number of completed iterations and
	// the most recent error (zero before the first iteration). Training stops
	// if 'false' is returned.
	RunCondition func(int, float64) bool

	// SendStatus indicates whether or not to report progress after the
	// current iteration. SendStatus can be left nil to represent an
	// unconditional false.
	SendStatus func(int) bool

	// Update is how status updates are returned. If SendStatus is nil, Update
	// can also be left nil.
	Update func(Result)
}

// Train repeatedly calls Iteration until RunCondition returns false, passing
// status snapshots through Update as requested.
func (t *Trainer) Train(args TrainArgs) error {
	// handle error cases and set defaults
	{
		if args.RunCondition == nil {
			return errors.Errorf("RunCondition is nil")
		}

		if args.SendStatus == nil {
			args.SendStatus = func(int) bool { return false }
		}

		if args.Update == nil {
			args.Update = func(Result) {}
		}
	}

	for iter := 0; args.RunCondition(iter, t.lastError); iter++ {
		if err := t.Iteration(); err != nil {
			return errors.Wrapf(err, "iteration %d failed\n", iter)
		}

		if args.SendStatus(iter + 1) {
			args.Update(Result{
				Iteration: iter + 1,
				Error:     t.lastError,
			})
		}
	}

	return nil
}
