package shared

import "fmt"

// Score bounds shared by service ratings and staff ratings
const (
	MinScore = 1
	MaxScore = 5
)

// ValidateScore checks that a satisfaction score is within 1..5
func ValidateScore(field string, score int) error {
	if score < MinScore || score > MaxScore {
		return NewDomainError("INVALID_SCORE", fmt.Sprintf("%s must be between %d and %d", field, MinScore, MaxScore))
	}
	return nil
}
