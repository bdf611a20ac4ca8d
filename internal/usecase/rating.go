package usecase

import "math"

// Rating is the mean score rounded to one decimal, or nil when the title
// has no reviews.
func Rating(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	return roundRating(float64(sum) / float64(len(scores)))
}

func roundRating(avg float64) *float64 {
	r := math.Round(avg*10) / 10
	return &r
}
