package flattrain

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// A span is a closed-open range [low, high) of sample indices assigned to
// exactly one worker.
type span struct {
	low, high int
}

func (s span) size() int {
	return s.high - s.low
}

// Threads returns the number of gradient workers New will create: the
// machine's logical core count, probed via cpuid, falling back to
// runtime.NumCPU when the probe reports nothing (some virtualized
// environments).
func Threads() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}

	return runtime.NumCPU()
}

// partition splits the sample range [0, n) into at most 'workers' contiguous,
// disjoint spans whose union is exactly [0, n). Sizes differ by at most one,
// with the remainder going to the leading spans. The worker count is capped
// at n so that no span is empty.
//
// partition is pure and deterministic; it returns ErrNoSamples if n < 1.
func partition(n, workers int) ([]span, error) {
	if n < 1 {
		return nil, ErrNoSamples
	}

	if workers < 1 {
		workers = 1
	} else if workers > n {
		workers = n
	}

	size := n / workers
	rem := n % workers

	spans := make([]span, workers)
	low := 0
	for i := range spans {
		high := low + size
		if i < rem {
			high++
		}

		spans[i] = span{low, high}
		low = high
	}

	return spans, nil
}
