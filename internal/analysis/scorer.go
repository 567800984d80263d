package analysis

import "bottleneck-mcp/internal/policy"

// Score blends independently normalized queue and process times.
// Queue time is weighted more heavily because it is pure waste. Scores above 100
// are possible for extreme inputs and are not clamped.
func Score(queueTime, processTime float64, s policy.Scoring) float64 {
	normalizedQueue := queueTime / s.QueueScale * 100
	normalizedProcess := processTime / s.ProcessScale * 100
	return normalizedQueue*s.QueueWeight + normalizedProcess*s.ProcessWeight
}

// Classify maps a score onto a risk tier. Boundaries belong to the higher tier.
func Classify(score float64, s policy.Scoring) RiskLevel {
	switch {
	case score >= s.CriticalAt:
		return RiskCritical
	case score >= s.HighAt:
		return RiskHigh
	case score >= s.MediumAt:
		return RiskMedium
	default:
		return RiskLow
	}
}
