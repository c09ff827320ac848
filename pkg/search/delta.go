package search

// ComputeDelta returns the signed improvement of newValue over oldValue
// for the given optimization direction: positive means newValue is
// better. Minimizing problems improve by decreasing, maximizing problems
// improve by increasing (spec §4.2, reused by parallel tempering's swap
// decision in §4.7).
func ComputeDelta(minimizing bool, newValue, oldValue float64) float64 {
	if minimizing {
		return oldValue - newValue
	}
	return newValue - oldValue
}
