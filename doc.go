// Package flattrain trains flat (array-encoded) neural networks with
// multi-threaded resilient propagation (RPROP).
//
// The center of the package is the Trainer, which owns the canonical weight
// vector of a Network and advances it one training step at a time:
//
//		t, err := flattrain.New(net, data, flattrain.DefaultConfig())
//		if err != nil {
//			return err
//		}
//
//		err = t.Train(flattrain.TrainArgs{
//			RunCondition: flattrain.TrainUntil(1000),
//		})
//
// Each call to Iteration partitions the training set across a fixed pool of
// gradient workers, one per hardware thread. Every worker holds a private
// clone of the network and computes a partial gradient and error over its own
// contiguous range of samples; the Trainer sums the partials, applies the
// RPROP per-weight adaptive step rule, and copies the updated weights back
// into every clone so the next iteration starts synchronized.
//
// The network's forward/backward math is not part of this package: anything
// satisfying the Network interface can be trained. The subpackage "networks"
// provides a flat feedforward implementation.
//
// RPROP adapts a separate step size per weight from the sign of successive
// gradients, independent of their magnitude, so no learning rate is needed;
// the tunables live in Config, with standard values from DefaultConfig.
package flattrain
