package flattrain

import (
	"math"

	"github.com/pkg/errors"
)

// Standard RPROP tunables, used by DefaultConfig.
const (
	defaultPositiveEta   float64 = 1.2
	defaultNegativeEta   float64 = 0.5
	defaultInitialStep   float64 = 0.1
	defaultMinStep       float64 = 1e-6
	defaultMaxStep       float64 = 50
	defaultZeroTolerance float64 = 1e-17
)

// Config holds the RPROP tunables. It is passed by value and never modified;
// a Trainer keeps the Config it was constructed with for its whole lifetime.
type Config struct {
	// PositiveEta is the step-size growth factor applied when consecutive
	// gradients agree in sign. Must be > 1.
	PositiveEta float64

	// NegativeEta is the step-size shrink factor applied when consecutive
	// gradients disagree in sign. Must be in (0, 1).
	NegativeEta float64

	// InitialStep is the per-weight step size before the first iteration.
	InitialStep float64

	// MinStep and MaxStep bound every step size, always.
	MinStep, MaxStep float64

	// ZeroTolerance is the magnitude below which a gradient product is
	// treated as zero when comparing signs.
	ZeroTolerance float64
}

// DefaultConfig returns the standard RPROP constants: growth 1.2, shrink 0.5,
// initial step 0.1, steps bounded to [1e-6, 50].
func DefaultConfig() Config {
	return Config{
		PositiveEta:   defaultPositiveEta,
		NegativeEta:   defaultNegativeEta,
		InitialStep:   defaultInitialStep,
		MinStep:       defaultMinStep,
		MaxStep:       defaultMaxStep,
		ZeroTolerance: defaultZeroTolerance,
	}
}

func (c Config) validate() error {
	switch {
	case c.PositiveEta <= 1:
		return errors.Errorf("PositiveEta must be > 1 (%v)", c.PositiveEta)
	case c.NegativeEta <= 0 || c.NegativeEta >= 1:
		return errors.Errorf("NegativeEta must be in (0, 1) (%v)", c.NegativeEta)
	case c.MinStep <= 0:
		return errors.Errorf("MinStep must be > 0 (%v)", c.MinStep)
	case c.MaxStep < c.MinStep:
		return errors.Errorf("MaxStep must be >= MinStep (%v < %v)", c.MaxStep, c.MinStep)
	case c.InitialStep < c.MinStep || c.InitialStep > c.MaxStep:
		return errors.Errorf("InitialStep must be within [MinStep, MaxStep] (%v)", c.InitialStep)
	case c.ZeroTolerance < 0:
		return errors.Errorf("ZeroTolerance must be >= 0 (%v)", c.ZeroTolerance)
	}

	return nil
}

// sign reduces x to -1, 0, or +1, treating anything within the zero
// tolerance as 0.
func (c Config) sign(x float64) float64 {
	if math.Abs(x) < c.ZeroTolerance {
		return 0
	} else if x > 0 {
		return 1
	}

	return -1
}

// update advances the weight at index i from its accumulated gradient and
// per-weight history, consuming (zeroing) the gradient slot. Weights never
// interact; update touches only index i of each slice.
//
// The rule compares the sign of this iteration's gradient against the stored
// one:
//
//	agree    → grow the step (capped at MaxStep) and move by it, in the
//	           gradient's direction
//	disagree → shrink the step (floored at MinStep), don't move, and clear
//	           the stored gradient so the next comparison lands in the
//	           neutral branch
//	neutral  → move by sign(gradient) * lastGradient and record the gradient
//
// The neutral branch deliberately uses the stored gradient, not the step
// size, as the move magnitude. Canonical RPROP would use the step size;
// this formulation is kept for behavior compatibility with the trainers
// this package is interchangeable with, and makes the very first iteration
// a no-move, record-only step (lastGradient starts at zero).
func (c Config) update(i int, weights, grads, lastGrads, steps []float64) {
	grad := grads[i]

	var delta float64
	switch s := c.sign(grad * lastGrads[i]); {
	case s > 0:
		steps[i] = math.Min(steps[i]*c.PositiveEta, c.MaxStep)
		delta = c.sign(grad) * steps[i]
		lastGrads[i] = grad
	case s < 0:
		steps[i] = math.Max(steps[i]*c.NegativeEta, c.MinStep)
		lastGrads[i] = 0
	default:
		delta = c.sign(grad) * lastGrads[i]
		lastGrads[i] = grad
	}

	weights[i] += delta
	grads[i] = 0
}
