package quiz

import (
	"fmt"
	"math"
)

// Score is the running scoreboard. Its percentage is taken over attempted
// questions only.
type Score struct {
	Correct    int `json:"correct"`
	Attempted  int `json:"attempted"`
	Percentage int `json:"percentage"`
}

func (s Score) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", s.Correct, s.Attempted, s.Percentage)
}

// Summary is the final result. Unlike Score, its percentage is taken over
// the whole question set, so skipped questions count against it.
type Summary struct {
	Correct    int `json:"correct"`
	Attempted  int `json:"attempted"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", s.Correct, s.Total, s.Percentage)
}

// Percentage rounds part/whole*100 half up and returns 0 for an empty whole.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(whole) + 0.5))
}

func newScore(correct, attempted int) Score {
	return Score{
		Correct:    correct,
		Attempted:  attempted,
		Percentage: Percentage(correct, attempted),
	}
}

func newSummary(correct, attempted, total int) Summary {
	return Summary{
		Correct:    correct,
		Attempted:  attempted,
		Total:      total,
		Percentage: Percentage(correct, total),
	}
}
