package flattrain

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned during construction.
var (
	ErrNoSamples = Error{"training set has no samples"}
	ErrNoWeights = Error{"network has no weights"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// UnsupportedTrainingSetError documents a DataSupplier that cannot be used for
// training because it does not support random-access indexing with a sample
// count, which static partitioning across workers requires.
type UnsupportedTrainingSetError struct{ string }

func (err UnsupportedTrainingSetError) Error() string {
	return "training set does not support indexed access: " + err.string
}
