package stats

import (
	"math"
	"slices"
)

// Round rounds halves toward +Inf, so -2.5 becomes -2 where math.Round
// would give -3. Every reported figure goes through it.
func Round(x float64) float64 {
	f := math.Floor(x)
	// x+0.5 would round 0.49999999999999994 up through float addition.
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// Round1 rounds to one decimal place using Round.
func Round1(x float64) float64 {
	return Round(x*10) / 10
}

// RoundInt is Round converted to int.
func RoundInt(x float64) int {
	return int(Round(x))
}

// Mean returns the arithmetic mean. Callers guarantee a non-empty slice.
func Mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// CalculateMedianContinuous finds the median value in a slice of floats.
func CalculateMedianContinuous(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}
