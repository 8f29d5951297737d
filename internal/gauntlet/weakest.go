package gauntlet

import "github.com/vytor/banishment/internal/models"

// MinAttempts keeps small samples out of weakest-link analysis.
const MinAttempts = 3

// DrillLength is the number of questions in a weakness drill.
const DrillLength = 5

// FindWeakestLink returns the eligible topic with the strictly lowest success
// rate, or nil when no topic has MinAttempts attempts. Ties keep the earliest
// entry in the slice.
func FindWeakestLink(progress []models.TopicProgress) *models.TopicProgress {
	var (
		weakest *models.TopicProgress
		lowest  float64
	)
	for i := range progress {
		tp := progress[i]
		if tp.TotalAttempted < MinAttempts {
			continue
		}
		rate := float64(tp.Correct) / float64(tp.TotalAttempted)
		if weakest == nil || rate < lowest {
			weakest = &tp
			lowest = rate
		}
	}
	return weakest
}

// SuccessRate is correct over attempted, or 0 for an untouched topic.
func SuccessRate(tp models.TopicProgress) float64 {
	if tp.TotalAttempted == 0 {
		return 0
	}
	return float64(tp.Correct) / float64(tp.TotalAttempted)
}
