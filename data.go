package flattrain

import (
	"github.com/pkg/errors"
)

// Datum is a simple wrapper used to send training samples to the workers
type Datum struct {
	// Inputs is the input of the network. It must have the same size as that of the
	// network's inputs.
	Inputs []float64

	// Outputs is the expected output of the network, given the input.
	Outputs []float64
}

// DataSupplier is the primary method of providing datasets for training.
type DataSupplier interface {
	// Get returns the sample at the given index.
	Get(i int) (Datum, error)
}

// IndexedSupplier builds upon DataSupplier, adding the capabilities required
// for training: random-access indexing and a total sample count. The Trainer
// statically partitions samples across workers at construction, which is only
// possible when the count is known up front.
//
// A DataSupplier given to New that does not satisfy IndexedSupplier is
// rejected with UnsupportedTrainingSetError.
type IndexedSupplier interface {
	DataSupplier

	// Len returns the total number of samples.
	Len() int
}

type internalSupplier struct {
	data [][][]float64
}

func (s internalSupplier) Get(i int) (Datum, error) {
	if i < 0 || i >= len(s.data) {
		return Datum{}, errors.Errorf("sample index out of range (%d with %d samples)", i, len(s.data))
	}

	return Datum{s.data[i][0], s.data[i][1]}, nil
}

func (s internalSupplier) Len() int {
	return len(s.data)
}

// Data converts a 3D dataset of float64 to an IndexedSupplier, which can be
// used for training. dataset indexing is: [sample index][inputs, outputs][values]
//
// N.B.: Data does not check if the data fit a certain network; that will be
// done during training
func Data(dataset [][][]float64) (IndexedSupplier, error) {
	if len(dataset) == 0 {
		return nil, errors.Errorf("dataset has no data (len == 0)")
	}

	// check we won't get indexes out of bounds
	for i := range dataset {
		if len(dataset[i]) < 2 {
			return nil, errors.Errorf("dataset lacks required data at index %d (len([%d]) < 2)", i, i)
		}
	}

	return internalSupplier{dataset}, nil
}
