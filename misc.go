package flattrain

// TrainUntil returns a function that satisfies TrainArgs.RunCondition,
// stopping after the given number of iterations.
func TrainUntil(maxIterations int) func(int, float64) bool {
	return func(iteration int, lastErr float64) bool {
		return iteration < maxIterations
	}
}

// ErrorBelow returns a function that satisfies TrainArgs.RunCondition,
// stopping once the error drops below the given threshold.
func ErrorBelow(threshold float64) func(int, float64) bool {
	return func(iteration int, lastErr float64) bool {
		return iteration == 0 || lastErr >= threshold
	}
}

// Both combines two RunConditions, continuing only while both do.
func Both(a, b func(int, float64) bool) func(int, float64) bool {
	return func(iteration int, lastErr float64) bool {
		return a(iteration, lastErr) && b(iteration, lastErr)
	}
}

// Every returns a function that satisfies TrainArgs.SendStatus.
// 'frequency' is in units of iterations.
func Every(frequency int) func(int) bool {
	return func(iteration int) bool {
		return iteration%frequency == 0
	}
}
