package flattrain

// Network is the contract between the Trainer and the model being trained.
// The forward/backward math lives entirely behind this interface; the Trainer
// only moves weights and gradients around it.
type Network interface {
	// Weights returns the network's live weight storage as one flat slice,
	// thresholds included. The Trainer aliases this slice as its canonical
	// weight vector and mutates it in place; implementations must return the
	// same backing array on every call.
	Weights() []float64

	// Clone returns an independent copy of the network with its own weight
	// storage. Each gradient worker computes on a clone, so Clone must not
	// share any mutable state with the receiver.
	Clone() Network

	// Gradient runs one forward/backward pass for a single sample,
	// accumulating the sample's error gradient into onto (which has the same
	// length as Weights) and returning the sample's scalar error.
	//
	// The gradient is oriented so that a positive value means increasing the
	// weight reduces the error; the Trainer moves weights in the gradient's
	// direction.
	//
	// Gradient is called from a single goroutine per network instance, but
	// different clones run concurrently; implementations may keep scratch
	// state on the receiver but must not touch shared globals.
	Gradient(d Datum, onto []float64) (float64, error)
}
