package service

import "math"

// ComputeProgress returns round-half-even(100 * completed / total), or 0
// when total is not positive. completed above total yields more than 100.
func ComputeProgress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.RoundToEven(100 * float64(completed) / float64(total))
}
